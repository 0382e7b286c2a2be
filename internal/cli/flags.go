package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/pipeline"
)

// renderFlags are the output flags shared by pack and grid.
type renderFlags struct {
	width, height    float64
	formats          string
	output           string
	fill             bool
	color            string
	background       string
	scale            float64
	offsetX, offsetY float64
	refresh          bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	d := DefaultConfig().Render
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", d.Width, "bar width")
	fs.Float64Var(&f.height, "height", d.Height, "bar height")
	fs.StringVarP(&f.formats, "format", "f", d.Formats, "output format(s): svg, png, pdf, dxf, json (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", `output file (single format) or base path; "-" writes to stdout`)
	fs.BoolVar(&f.fill, "fill", d.Fill, "fill circles instead of stroking them")
	fs.StringVar(&f.color, "color", d.Color, "circle color (#rgb or #rrggbb)")
	fs.StringVar(&f.background, "background", d.Background, "background color; empty is transparent")
	fs.Float64Var(&f.scale, "scale", d.Scale, "PNG pixels per unit")
	fs.Float64Var(&f.offsetX, "offset-x", d.OffsetX, "horizontal margin around the bar")
	fs.Float64Var(&f.offsetY, "offset-y", d.OffsetY, "vertical margin around the bar")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore the cached layout and generate a new one")
}

// apply merges the flags with the preset into opts.
func (f *renderFlags) apply(cmd *cobra.Command, cfg RenderConfig, opts *pipeline.Options) {
	opts.Width = pick(cmd, "width", f.width, cfg.Width)
	opts.Height = pick(cmd, "height", f.height, cfg.Height)
	opts.Formats = parseFormats(pick(cmd, "format", f.formats, cfg.Formats))
	opts.Fill = pick(cmd, "fill", f.fill, cfg.Fill)
	opts.Color = pick(cmd, "color", f.color, cfg.Color)
	opts.Background = pick(cmd, "background", f.background, cfg.Background)
	opts.Scale = pick(cmd, "scale", f.scale, cfg.Scale)
	opts.OffsetX = pick(cmd, "offset-x", f.offsetX, cfg.OffsetX)
	opts.OffsetY = pick(cmd, "offset-y", f.offsetY, cfg.OffsetY)
	opts.Refresh = f.refresh
}

// pick returns the flag value when the flag was set on the command line,
// else the non-zero preset value, else the flag default.
func pick[T comparable](cmd *cobra.Command, name string, flag, preset T) T {
	if cmd.Flags().Changed(name) {
		return flag
	}
	var zero T
	if preset != zero {
		return preset
	}
	return flag
}
