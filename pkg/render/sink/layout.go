package sink

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/packing"
)

// Layout is the input shared by every sink: a bar of Width×Height with its
// circles in bar-local coordinates.
type Layout struct {
	Width   float64
	Height  float64
	Circles []packing.Circle

	// Mode and Params describe how the circles were produced. Only the JSON
	// sink reads them.
	Mode   string
	Params any
	RunID  string
}

// Option configures a sink.
type Option func(*options)

type options struct {
	fill       bool
	color      string
	background string
	offsetX    float64
	offsetY    float64
	scale      float64
}

const (
	// DefaultColor is used for circles when no color is set.
	DefaultColor = "#000000"
	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
	// MaxScale bounds the PNG scale factor.
	MaxScale = 16.0
	// MaxPixels bounds the PNG image area, about 128 MiB of RGBA.
	MaxPixels = 1 << 25
	// strokeWidth is the outline width of unfilled circles.
	strokeWidth = 1.0
)

// WithFill draws solid circles instead of 1-unit outlines.
func WithFill(fill bool) Option { return func(o *options) { o.fill = fill } }

// WithColor sets the circle color as a hex string.
func WithColor(hex string) Option { return func(o *options) { o.color = hex } }

// WithBackground paints the canvas with a hex color. The default is
// transparent (white in PDF).
func WithBackground(hex string) Option { return func(o *options) { o.background = hex } }

// WithOffset pads the canvas by x on the left and right and y on the top
// and bottom.
func WithOffset(x, y float64) Option {
	return func(o *options) { o.offsetX, o.offsetY = max(0, x), max(0, y) }
}

// WithScale sets the PNG scale factor.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{color: DefaultColor, scale: DefaultScale}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// canvas returns the padded output size.
func (o options) canvas(l Layout) (w, h float64) {
	return l.Width + 2*o.offsetX, l.Height + 2*o.offsetY
}

// rgb parses a #rgb or #rrggbb color into 8-bit channels.
func rgb(hex string) (r, g, b int, err error) {
	digits, ok := strings.CutPrefix(hex, "#")
	if !ok || (len(digits) != 3 && len(digits) != 6) || strings.Trim(digits, "0123456789abcdefABCDEF") != "" {
		return 0, 0, 0, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", hex)
	}
	cr, cg, cb := c.RGB255()
	return int(cr), int(cg), int(cb), nil
}
