package server

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/packing"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

// query reads typed values from URL parameters, keeping the first error.
type query struct {
	values url.Values
	err    error
}

func (q *query) has(name string) bool { return q.values.Get(name) != "" }

func (q *query) fail(name, raw string) {
	if q.err == nil {
		q.err = errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
}

func (q *query) getInt(name string, def int) int {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, raw)
		return def
	}
	return v
}

func (q *query) getUint64(name string) uint64 {
	raw := q.values.Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		q.fail(name, raw)
	}
	return v
}

// getFloat parses name; explicitly given values must be positive when
// positive is set.
func (q *query) getFloat(name string, positive bool) float64 {
	raw := q.values.Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || (positive && !(v > 0)) {
		q.fail(name, raw)
		return 0
	}
	return v
}

func (q *query) getBool(name string) bool {
	raw := q.values.Get(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(name, raw)
	}
	return v
}

// parseOptions builds pipeline options for mode from URL parameters and
// returns the single requested output format. Range and enum checks are
// left to the pipeline.
func parseOptions(mode string, values url.Values) (pipeline.Options, string, error) {
	q := &query{values: values}

	format := values.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	opts := pipeline.Options{
		Mode:       mode,
		Width:      q.getFloat("width", true),
		Height:     q.getFloat("height", true),
		Refresh:    q.getBool("refresh"),
		Formats:    []string{format},
		Fill:       q.getBool("fill"),
		Color:      values.Get("color"),
		Background: values.Get("background"),
		Scale:      q.getFloat("scale", true),
		OffsetX:    q.getFloat("offset_x", false),
		OffsetY:    q.getFloat("offset_y", false),
	}

	switch mode {
	case pipeline.ModeGrid:
		d := grid.DefaultParams()
		opts.Grid = grid.Params{
			Rows:           q.getInt("rows", d.Rows),
			Density:        packing.ClampDensity(q.getInt("density", d.Density)),
			SizeVariationY: q.getInt("size_variation_y", 0),
			SizeVariationX: q.getInt("size_variation_x", 0),
			Overlap:        q.getInt("overlap", 0),
			Layout:         grid.Layout(values.Get("layout")),
		}
		if q.has("rows") && opts.Grid.Rows < 1 {
			q.fail("rows", values.Get("rows"))
		}
	default:
		opts.Packing.Density = packing.ClampDensity(q.getInt("density", pipeline.DefaultDensity))
		opts.Packing.SizeVariation = q.getInt("size_variation", 0)
		opts.Packing.OverlapAmount = q.getInt("overlap", 0)
		opts.Seed = q.getUint64("seed")
	}

	if q.err != nil {
		return pipeline.Options{}, "", q.err
	}
	return opts, format, nil
}
