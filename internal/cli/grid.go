package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/packing"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

// gridCommand creates the grid command.
func (c *CLI) gridCommand() *cobra.Command {
	var (
		rf     renderFlags
		gp     grid.Params
		layout string
	)
	d := DefaultConfig().Grid

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Lay circles out in deterministic rows",
		Long: `Lay circles out in deterministic rows.

Rows are spaced evenly over the bar height. Vertical and horizontal size
variation scale circles along linear gradients, overlap packs columns
closer together, and the stagger layout shifts every other row by half a
column.`,
		Example: `  barpack grid --rows 3 --layout stagger
  barpack grid --size-variation-x 60 --overlap 20 -f svg,dxf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Grid
			opts := pipeline.Options{Mode: pipeline.ModeGrid}
			opts.Grid = grid.Params{
				Rows:           pick(cmd, "rows", gp.Rows, cfg.Rows),
				Density:        packing.ClampDensity(pick(cmd, "density", gp.Density, cfg.Density)),
				SizeVariationY: pick(cmd, "size-variation-y", gp.SizeVariationY, cfg.SizeVariationY),
				SizeVariationX: pick(cmd, "size-variation-x", gp.SizeVariationX, cfg.SizeVariationX),
				Overlap:        pick(cmd, "overlap", gp.Overlap, cfg.Overlap),
				Layout:         grid.Layout(pick(cmd, "layout", layout, string(cfg.Layout))),
			}
			rf.apply(cmd, c.Config.Render, &opts)
			return c.runGenerate(cmd.Context(), opts, rf.output)
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&gp.Rows, "rows", d.Rows, "number of rows")
	fs.IntVarP(&gp.Density, "density", "d", d.Density, "column density in percent (10-100)")
	fs.IntVar(&gp.SizeVariationY, "size-variation-y", d.SizeVariationY, "vertical size gradient in percent (larger top rows)")
	fs.IntVar(&gp.SizeVariationX, "size-variation-x", d.SizeVariationX, "horizontal size gradient in percent (larger to the right)")
	fs.IntVar(&gp.Overlap, "overlap", d.Overlap, "column overlap in percent (0-100)")
	fs.StringVar(&layout, "layout", string(d.Layout), "row layout: straight, stagger")
	rf.register(cmd)

	return cmd
}
