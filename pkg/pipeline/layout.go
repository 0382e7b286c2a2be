package pipeline

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/packing"
	"github.com/matzehuels/barpack/pkg/render/sink"
)

// Layout is a generated bar: the circles plus what produced them. It is the
// unit stored in the layout cache.
type Layout struct {
	Mode     string           `json:"mode"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Params   json.RawMessage  `json:"params"`
	Circles  []packing.Circle `json:"circles"`
	Coverage float64          `json:"coverage"`

	// Phases and GapFilled are only set in packing mode.
	Phases    []packing.PhaseStats `json:"phases,omitempty"`
	GapFilled int                  `json:"gap_filled,omitempty"`

	// Fallback is set when generation failed and the single-circle
	// placeholder was substituted.
	Fallback bool `json:"fallback,omitempty"`
}

// Sink converts the layout into sink input.
func (l Layout) Sink(runID string) sink.Layout {
	return sink.Layout{
		Width:   l.Width,
		Height:  l.Height,
		Circles: l.Circles,
		Mode:    l.Mode,
		Params:  l.Params,
		RunID:   runID,
	}
}

// MarshalLayout serializes a layout for caching.
func MarshalLayout(l Layout) ([]byte, error) { return json.Marshal(l) }

// UnmarshalLayout parses a cached layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	if l.Circles == nil {
		l.Circles = []packing.Circle{}
	}
	return l, nil
}

// GenerateLayout runs the generator selected by opts.Mode. It never fails
// on engine errors: a panic inside the generator is logged and replaced by
// [packing.Fallback].
func GenerateLayout(opts Options) (Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, err
	}

	l := Layout{Mode: opts.Mode, Width: opts.Width, Height: opts.Height}
	var params any
	err := guard(opts.Logger, func() {
		switch opts.Mode {
		case ModeGrid:
			gp := opts.Grid.Clamp()
			params = gp
			l.Circles = grid.Generate(opts.Width, opts.Height, gp)
			l.Coverage = packing.Coverage(l.Circles, opts.Width*opts.Height)
		default:
			p := opts.PackingParams()
			params = p
			res := packing.Generate(p, packingOptions(opts)...)
			l.Circles = res.Circles
			l.Coverage = res.Coverage
			l.Phases = res.Phases
			l.GapFilled = res.GapFilled
		}
	})
	if err != nil {
		l.Circles = packing.Fallback(opts.Width, opts.Height)
		l.Coverage = packing.Coverage(l.Circles, opts.Width*opts.Height)
		l.Phases, l.GapFilled = nil, 0
		l.Fallback = true
	}
	if l.Circles == nil {
		l.Circles = []packing.Circle{}
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return Layout{}, fmt.Errorf("encode params: %w", err)
	}
	l.Params = raw
	return l, nil
}

func packingOptions(opts Options) []packing.Option {
	popts := []packing.Option{packing.WithLogger(opts.Logger)}
	switch {
	case opts.Source != nil:
		popts = append(popts, packing.WithSource(opts.Source))
	case opts.Seed != 0:
		popts = append(popts, packing.WithSeed(opts.Seed))
	}
	return popts
}

// guard runs fn and converts a panic into an error.
func guard(logger *log.Logger, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
			logger.Warn("layout generation failed, using fallback", "err", err)
			logger.Debug("generator stack", "stack", string(debug.Stack()))
		}
	}()
	fn()
	return nil
}
