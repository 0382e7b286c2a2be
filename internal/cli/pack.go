package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/packing"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

// packFlags are the engine flags of the pack and stats commands.
type packFlags struct {
	density       int
	sizeVariation int
	overlap       int
	seed          uint64
}

func (f *packFlags) register(cmd *cobra.Command) {
	d := DefaultConfig().Packing
	fs := cmd.Flags()
	fs.IntVarP(&f.density, "density", "d", d.Density, "target coverage in percent (10-100)")
	fs.IntVar(&f.sizeVariation, "size-variation", d.SizeVariation, "spread of circle sizes in percent (0-100)")
	fs.IntVar(&f.overlap, "overlap", d.Overlap, "allowed overlap in percent (0-100)")
	fs.Uint64Var(&f.seed, "seed", d.Seed, "random seed; 0 picks one")
}

func (f *packFlags) apply(cmd *cobra.Command, cfg PackingConfig, opts *pipeline.Options) {
	opts.Packing.Density = packing.ClampDensity(pick(cmd, "density", f.density, cfg.Density))
	opts.Packing.SizeVariation = pick(cmd, "size-variation", f.sizeVariation, cfg.SizeVariation)
	opts.Packing.OverlapAmount = pick(cmd, "overlap", f.overlap, cfg.Overlap)
	opts.Seed = pick(cmd, "seed", f.seed, cfg.Seed)
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var (
		pf packFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Fill a bar with packed circles",
		Long: `Fill a bar with packed circles.

The packer places circles in four size bands, largest first, scoring
random candidates by clearance, distance to the edges and local density.
It stops once the target density is reached and finally fills the largest
remaining gaps.

Unseeded layouts are cached by parameters: asking again returns the same
bar until --refresh is given.`,
		Example: `  barpack pack -d 80 --size-variation 40 -f svg,png
  barpack pack --overlap 30 --fill --seed 7 -o bar.pdf
  barpack pack -f json -o - | jq .coverage`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Mode: pipeline.ModePacking}
			pf.apply(cmd, c.Config.Packing, &opts)
			rf.apply(cmd, c.Config.Render, &opts)
			return c.runGenerate(cmd.Context(), opts, rf.output)
		},
	}

	pf.register(cmd)
	rf.register(cmd)
	return cmd
}

// runGenerate executes one pipeline run and writes its artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %s bar", opts.Mode))

	if output == stdoutPath {
		out = os.Stderr
		defer func() { out = os.Stdout }()
	}
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		output:    output,
		name:      opts.Mode,
		stdout:    os.Stdout,
	})
	if err != nil {
		return err
	}

	if res.Layout.Fallback {
		printWarning("Generation failed; wrote the fallback circle")
	} else {
		printSuccess("Wrote %s bar %s", opts.Mode, StyleDim.Render(fmt.Sprintf("(%gx%g)", opts.Width, opts.Height)))
	}
	printStats(res.Stats.Circles, res.Stats.Coverage, res.CacheInfo.LayoutHit, res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
