package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/barpack/pkg/cache"
	"github.com/matzehuels/barpack/pkg/observability"
)

// Runner executes pipeline runs against a cache. It holds no per-run state,
// so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{ID: uuid.NewString()}
	logger := opts.Logger.With("run", result.ID[:8])
	opts.Logger = logger

	layoutStart := time.Now()
	l, layoutKey, layoutHit, err := r.layoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Circles = len(l.Circles)
	result.Stats.Coverage = l.Coverage
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("generated layout",
		"mode", l.Mode,
		"circles", len(l.Circles),
		"coverage", fmt.Sprintf("%.3f", l.Coverage),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime.Round(time.Microsecond))

	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, l, layoutKey, result.ID, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime.Round(time.Microsecond))
	return result, nil
}

// GenerateLayoutWithCacheInfo returns the layout for opts, from cache when
// possible, and whether it was a cache hit.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, opts Options) (Layout, bool, error) {
	r.applyLogger(&opts)
	l, _, hit, err := r.layoutWithCacheInfo(ctx, opts)
	return l, hit, err
}

func (r *Runner) layoutWithCacheInfo(ctx context.Context, opts Options) (Layout, string, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, "", false, err
	}
	key := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	// An injected source makes the run unreproducible from its key.
	cacheable := opts.Source == nil
	if cacheable && !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key, opts.Logger); ok {
			return l, key, true, nil
		}
	}

	observability.Pipeline().OnPackStart(ctx, opts.Mode, opts.ParamsKey())
	start := time.Now()
	l, err := GenerateLayout(opts)
	observability.Pipeline().OnPackComplete(ctx, opts.Mode, len(l.Circles), l.Coverage, time.Since(start), err)
	if err != nil {
		return Layout{}, "", false, err
	}

	// Fallback layouts are not cached so the next run retries generation.
	if cacheable && !l.Fallback {
		r.store(ctx, "layout", key, l, opts.Logger)
	}
	return l, key, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string, logger *log.Logger) (Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("layout cache read failed", "key", key, "err", err)
		return Layout{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return Layout{}, false
	}
	l, err := UnmarshalLayout(data)
	if err != nil {
		logger.Debug("discarding unreadable cached layout", "key", key, "err", err)
		return Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

// RenderWithCacheInfo renders l for every requested format and reports
// whether all of them came from cache. layoutKey scopes the artifact keys;
// an empty key disables artifact caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l Layout, layoutKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	return r.renderWithCacheInfo(ctx, l, layoutKey, "", opts)
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, l Layout, layoutKey, runID string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// JSON carries the run ID, so it is never served from cache.
	cacheable := layoutKey != "" && !l.Fallback
	if cacheable {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			if format == FormatJSON {
				break
			}
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := Render(ctx, l, runID, opts)
	if err != nil {
		return nil, false, err
	}
	if cacheable {
		for format, data := range artifacts {
			if format == FormatJSON {
				continue
			}
			r.setRaw(ctx, "artifact", r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL, opts.Logger)
		}
	}
	return artifacts, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, l Layout, logger *log.Logger) {
	data, err := MarshalLayout(l)
	if err != nil {
		logger.Warn("encode layout for cache", "err", err)
		return
	}
	r.setRaw(ctx, keyType, key, data, cache.LayoutTTL, logger)
}

// setRaw writes to the cache. Failures are logged and otherwise ignored.
func (r *Runner) setRaw(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
