// Package pipeline runs the generate → render flow shared by the CLI and
// the HTTP server.
//
// # Stages
//
//  1. Layout: produce circles with the packing engine or the grid packer.
//     Generation is guarded; a panic degrades to [packing.Fallback] instead
//     of failing the request.
//  2. Render: encode the layout with the sinks in pkg/render/sink.
//
// Both stages are cached through a [cache.Cache] owned by the [Runner].
// Unseeded packing layouts are cached by parameter tuple, so asking again
// with the same parameters returns the same bar until Refresh is set.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Mode:    pipeline.ModePacking,
//	    Packing: packing.Params{Density: 70, SizeVariation: 40},
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barpack/pkg/cache"
	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/packing"
	"github.com/matzehuels/barpack/pkg/render/sink"
)

// Modes.
const (
	ModePacking = errors.ModePacking
	ModeGrid    = errors.ModeGrid
)

// Defaults shared by the CLI, config presets and the HTTP server.
const (
	DefaultMode          = ModePacking
	DefaultWidth         = 250.0
	DefaultHeight        = 18.0
	DefaultDensity       = 50
	DefaultColor         = sink.DefaultColor
	DefaultGridRows      = 2
	DefaultGridDensity   = 100
	DefaultStabilityRuns = 20
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDXF  = "dxf"
	FormatJSON = "json"
)

// Formats lists every output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDXF, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDXF:  true,
	FormatJSON: true,
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatDXF:
		return "application/dxf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Options configures one pipeline run.
type Options struct {
	// Layout options
	Mode    string         `json:"mode"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Seed    uint64         `json:"seed,omitempty"`
	Packing packing.Params `json:"packing"` // Width and Height come from Options
	Grid    grid.Params    `json:"grid"`
	Refresh bool           `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Fill       bool     `json:"fill,omitempty"`
	Color      string   `json:"color,omitempty"`
	Background string   `json:"background,omitempty"`
	OffsetX    float64  `json:"offset_x,omitempty"`
	OffsetY    float64  `json:"offset_y,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Source packing.Source `json:"-"` // overrides Seed when set

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and JSON output.
	ID string

	Layout    Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Circles    int
	Coverage   float64
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults prepares options for a full run. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero-valued layout fields. A zero packing or grid
// density means unset; pass explicit user values through
// [packing.ClampDensity] first.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Packing.Density == 0 {
		o.Packing.Density = DefaultDensity
	}
	if o.Grid.Rows == 0 {
		o.Grid.Rows = DefaultGridRows
	}
	if o.Grid.Density == 0 {
		o.Grid.Density = DefaultGridDensity
	}
	if o.Grid.Layout == "" {
		o.Grid.Layout = grid.Straight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks mode, size and grid
// layout.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if o.Mode == ModeGrid {
		if err := errors.ValidateLayout(string(o.Grid.Layout)); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults fills zero-valued render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Scale == 0 {
		o.Scale = sink.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks formats, colors, scale
// and offsets. When PNG is requested and the bar size is known, the image
// must fit within [sink.MaxPixels].
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateHexColor(o.Color); err != nil {
		return err
	}
	if o.Background != "" {
		if err := errors.ValidateHexColor(o.Background); err != nil {
			return err
		}
	}
	if o.Scale < 0 || o.OffsetX < 0 || o.OffsetY < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale and offsets must not be negative")
	}
	if o.Scale > sink.MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale too large (max %g)", sink.MaxScale)
	}
	if o.OffsetX > errors.MaxDimension || o.OffsetY > errors.MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "offsets too large (max %d)", errors.MaxDimension)
	}
	if o.Width > 0 && o.Height > 0 && slices.Contains(o.Formats, FormatPNG) {
		if _, _, err := sink.PNGSize(o.Width, o.Height, o.SinkOptions()...); err != nil {
			return err
		}
	}
	return nil
}

// PackingParams returns the engine parameters with the bar size applied.
func (o *Options) PackingParams() packing.Params {
	p := o.Packing
	p.Width, p.Height = o.Width, o.Height
	return p.Clamp()
}

// ParamsKey renders the generator parameters of the selected mode.
func (o *Options) ParamsKey() string {
	if o.Mode == ModeGrid {
		return o.Grid.Clamp().Key(o.Width, o.Height)
	}
	return o.PackingParams().Key()
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{Mode: o.Mode, Params: o.ParamsKey()}
	if o.Mode == ModePacking {
		opts.Seed = o.Seed
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Fill:       o.Fill,
		Color:      o.Color,
		Background: o.Background,
		Scale:      o.Scale,
		OffsetX:    o.OffsetX,
		OffsetY:    o.OffsetY,
	}
}

// SinkOptions converts the render fields into sink options.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{
		sink.WithFill(o.Fill),
		sink.WithColor(o.Color),
		sink.WithOffset(o.OffsetX, o.OffsetY),
		sink.WithScale(o.Scale),
	}
	if o.Background != "" {
		opts = append(opts, sink.WithBackground(o.Background))
	}
	return opts
}
