package packing

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// Parameter ranges enforced by [Params.Clamp].
const (
	MinDensity = 10
	MaxDensity = 100
	MaxPercent = 100
)

// Params is the input tuple of a packing run.
type Params struct {
	Density       int     `json:"density" toml:"density"`
	SizeVariation int     `json:"size_variation" toml:"size_variation"`
	OverlapAmount int     `json:"overlap" toml:"overlap"`
	Width         float64 `json:"width" toml:"width"`
	Height        float64 `json:"height" toml:"height"`
}

// Clamp returns p with density in [10,100] and size variation and overlap
// in [0,100]. Width and height are left untouched.
func (p Params) Clamp() Params {
	p.Density = ClampDensity(p.Density)
	p.SizeVariation = max(0, min(MaxPercent, p.SizeVariation))
	p.OverlapAmount = max(0, min(MaxPercent, p.OverlapAmount))
	return p
}

// ClampDensity limits d to [MinDensity, MaxDensity]. Apply it to user input
// before it reaches code that reads a zero density as unset.
func ClampDensity(d int) int {
	return max(MinDensity, min(MaxDensity, d))
}

// Key renders the parameter tuple as a cache key. Two runs with equal keys
// are interchangeable from the caller's point of view.
func (p Params) Key() string {
	return fmt.Sprintf("packing-%d-%d-%d-%g-%g", p.Density, p.SizeVariation, p.OverlapAmount, p.Width, p.Height)
}

// Area returns the bar area.
func (p Params) Area() float64 { return p.Width * p.Height }

// PhaseStats records what one phase contributed.
type PhaseStats struct {
	Name     string  `json:"name"`
	Placed   int     `json:"placed"`
	Coverage float64 `json:"coverage"`
}

// Result is the output of [Generate].
type Result struct {
	// Params holds the clamped inputs the layout was generated from.
	Params Params `json:"params"`

	// Circles lists phase circles in placement order, then gap circles.
	Circles []Circle `json:"circles"`

	// Coverage is the final covered-area fraction.
	Coverage float64 `json:"coverage"`

	// Phases has one entry per phase that actually ran.
	Phases []PhaseStats `json:"phases"`

	// GapFilled counts circles added by the gap-filling pass.
	GapFilled int `json:"gap_filled"`
}

// Option configures [Generate].
type Option func(*config)

type config struct {
	source Source
	logger *log.Logger
}

// WithSource injects the random source. Use it to make runs reproducible.
func WithSource(src Source) Option {
	return func(c *config) { c.source = src }
}

// WithSeed is shorthand for WithSource(NewSource(seed)).
func WithSeed(seed uint64) Option {
	return func(c *config) { c.source = NewSource(seed) }
}

// WithLogger sets a logger for per-phase debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Generate packs circles into a width×height bar.
//
// Inputs are clamped first. A non-positive width or height yields an empty
// result. The run is stochastic unless a source is injected; it always
// terminates and never fails.
func Generate(p Params, opts ...Option) Result {
	cfg := config{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.source == nil {
		cfg.source = newRandomSource()
	}

	p = p.Clamp()
	result := Result{Params: p, Circles: []Circle{}}
	if !(p.Width > 0 && p.Height > 0) || math.IsInf(p.Area(), 0) {
		return result
	}

	start := time.Now()
	multiplier := MinDistanceMultiplier(p.OverlapAmount)
	tracker := coverageTracker{area: p.Area()}
	var circles []Circle

	for _, phase := range PlanPhases(p.Density, p.SizeVariation, p.Area(), p.Height) {
		idx := NewSpatialIndex(p.Width, p.Height, phase.MaxRadius, circles)
		placed := runPass(cfg.source, idx, p.Width, p.Height, phase, multiplier)
		circles = append(circles, placed...)
		tracker.add(placed...)

		result.Phases = append(result.Phases, PhaseStats{
			Name:     phase.Name,
			Placed:   len(placed),
			Coverage: tracker.coverage(),
		})
		cfg.logger.Debug("packing phase done",
			"phase", phase.String(),
			"placed", len(placed),
			"coverage", fmt.Sprintf("%.3f", tracker.coverage()))

		if tracker.reached(p.Density) {
			cfg.logger.Debug("coverage target reached", "target", earlyExitRatio*float64(p.Density)/100)
			break
		}
	}

	gapCircles := fillGaps(cfg.source, p.Width, p.Height, circles, p.SizeVariation, multiplier)
	circles = append(circles, gapCircles...)
	tracker.add(gapCircles...)

	result.Circles = append(result.Circles, circles...)
	result.Coverage = tracker.coverage()
	result.GapFilled = len(gapCircles)

	cfg.logger.Debug("packing done",
		"circles", len(circles),
		"gap_filled", len(gapCircles),
		"coverage", fmt.Sprintf("%.3f", result.Coverage),
		"duration", time.Since(start).Round(time.Microsecond))
	return result
}
