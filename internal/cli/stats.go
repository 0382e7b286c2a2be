package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/pipeline"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		pf      packFlags
		width   float64
		height  float64
		runs    int
		asJSON  bool
		perRun  bool
	)
	d := DefaultConfig().Render

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Measure packing stability across seeds",
		Long: `Measure packing stability across seeds.

Packs the same parameters with --runs consecutive seeds starting at --seed
and reports the mean and spread of coverage and circle count. A parameter
set is stable when every run's coverage lies within 10% of the mean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{Mode: pipeline.ModePacking}
			pf.apply(cmd, c.Config.Packing, &opts)
			opts.Width = pick(cmd, "width", width, c.Config.Render.Width)
			opts.Height = pick(cmd, "height", height, c.Config.Render.Height)
			base := opts.Seed
			if base == 0 {
				base = 1
			}

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d runs...", runs))
			if !asJSON {
				spinner.Start()
			}
			prog := newProgress(loggerFromContext(ctx))
			rep, err := pipeline.Stability(ctx, opts, runs, base)
			spinner.Stop()
			if err != nil {
				return fmt.Errorf("stability: %w", err)
			}
			prog.done(fmt.Sprintf("Packed %d runs", len(rep.Runs)))

			if asJSON {
				data, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			printStabilityReport(rep, perRun)
			return nil
		},
	}

	pf.register(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&width, "width", d.Width, "bar width")
	fs.Float64Var(&height, "height", d.Height, "bar height")
	fs.IntVarP(&runs, "runs", "n", pipeline.DefaultStabilityRuns, "number of seeded runs")
	fs.BoolVar(&asJSON, "json", false, "print the report as JSON")
	fs.BoolVar(&perRun, "table", false, "print one table row per run")

	return cmd
}

func printStabilityReport(rep *pipeline.StabilityReport, perRun bool) {
	p := rep.Params
	fmt.Fprintln(out, StyleTitle.Render("Stability report"))
	printKeyValue("parameters", fmt.Sprintf("density %d · size variation %d · overlap %d · %gx%g",
		p.Density, p.SizeVariation, p.OverlapAmount, p.Width, p.Height))
	printKeyValue("runs", fmt.Sprintf("%d (seeds %d-%d)", len(rep.Runs), rep.Runs[0].Seed, rep.Runs[len(rep.Runs)-1].Seed))
	printKeyValue("coverage", fmt.Sprintf("%.3f ± %.3f", rep.MeanCoverage, rep.StdCoverage))
	printKeyValue("circles", fmt.Sprintf("%.1f ± %.1f", rep.MeanCircles, rep.StdCircles))
	printKeyValue("max deviation", fmt.Sprintf("%.1f%%", rep.MaxDeviation*100))
	printKeyValue("distinct", StyleNumber.Render(fmt.Sprintf("%d", rep.Distinct)))

	if perRun {
		fmt.Fprintln(out, stabilityTable(rep))
	}
	if rep.Stable {
		printSuccess("Stable within %.0f%% of the mean", pipeline.StabilityTolerance*100)
		return
	}
	printWarning("Unstable: coverage strays %.1f%% from the mean", rep.MaxDeviation*100)
}
