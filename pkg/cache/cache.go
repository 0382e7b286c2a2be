// Package cache stores generated layouts and rendered artifacts.
//
// A [Cache] is an explicit object owned by its caller, usually a
// pipeline.Runner. Four backends are provided:
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [MemoryCache]: process-local map, used by the HTTP server and tests
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] so that equal inputs map to equal keys
// regardless of backend.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	// LayoutTTL applies to generated circle layouts.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL applies to rendered output.
	ArtifactTTL = 24 * time.Hour
)

// Backend names accepted by configuration.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = map[string]bool{
	BackendFile:   true,
	BackendMemory: true,
	BackendRedis:  true,
	BackendNone:   true,
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a generated layout.
	LayoutKey(opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a cached layout.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that determine a layout.
type LayoutKeyOpts struct {
	// Mode is "packing" or "grid".
	Mode string
	// Params is the generator's own parameter key, e.g. packing.Params.Key().
	Params string
	// Seed is zero for unseeded runs.
	Seed uint64
}

// ArtifactKeyOpts are the render settings that change output bytes.
type ArtifactKeyOpts struct {
	Format     string
	Fill       bool
	Color      string
	Background string
	Scale      float64
	OffsetX    float64
	OffsetY    float64
}

// DefaultKeyer builds readable layout keys and hashed artifact keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<params>" with a seed suffix for seeded runs.
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	var b strings.Builder
	b.WriteString("layout:")
	b.WriteString(opts.Params)
	if opts.Seed != 0 {
		b.WriteString(":seed-")
		b.WriteString(formatUint(opts.Seed))
	}
	return b.String()
}

// ArtifactKey hashes the layout key together with the render settings.
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutKey, opts)
}
