package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/barpack/pkg/packing"
)

// StabilityTolerance is the allowed relative deviation from the mean
// coverage for a parameter set to count as stable.
const StabilityTolerance = 0.10

// StabilityRun is the outcome of one seeded generation.
type StabilityRun struct {
	Seed     uint64  `json:"seed"`
	Circles  int     `json:"circles"`
	Coverage float64 `json:"coverage"`
}

// StabilityReport summarizes repeated packing runs of one parameter set.
type StabilityReport struct {
	Params       packing.Params `json:"params"`
	Runs         []StabilityRun `json:"runs"`
	MeanCoverage float64        `json:"mean_coverage"`
	StdCoverage  float64        `json:"std_coverage"`
	MeanCircles  float64        `json:"mean_circles"`
	StdCircles   float64        `json:"std_circles"`
	// MaxDeviation is the largest |coverage-mean|/mean over all runs.
	MaxDeviation float64 `json:"max_deviation"`
	Stable       bool    `json:"stable"`
	Distinct     int     `json:"distinct_layouts"`
}

// Stability packs the bar described by opts n times with seeds
// baseSeed, baseSeed+1, ... and reports how much coverage and circle count
// vary. Runs execute concurrently, each with its own source.
func Stability(ctx context.Context, opts Options, n int, baseSeed uint64) (*StabilityReport, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultStabilityRuns
	}
	p := opts.PackingParams()

	runs := make([]StabilityRun, n)
	firsts := make([]packing.Circle, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		seed := baseSeed + uint64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := packing.Generate(p, packing.WithSeed(seed))
			runs[i] = StabilityRun{Seed: seed, Circles: len(res.Circles), Coverage: res.Coverage}
			if len(res.Circles) > 0 {
				firsts[i] = res.Circles[0]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(p, runs, firsts), nil
}

func summarize(p packing.Params, runs []StabilityRun, firsts []packing.Circle) *StabilityReport {
	coverage := make([]float64, len(runs))
	counts := make([]float64, len(runs))
	for i, r := range runs {
		coverage[i] = r.Coverage
		counts[i] = float64(r.Circles)
	}

	rep := &StabilityReport{Params: p, Runs: runs}
	rep.MeanCoverage, rep.StdCoverage = stat.MeanStdDev(coverage, nil)
	rep.MeanCircles, rep.StdCircles = stat.MeanStdDev(counts, nil)
	if len(runs) == 1 {
		rep.StdCoverage, rep.StdCircles = 0, 0
	}

	if rep.MeanCoverage > 0 {
		for _, c := range coverage {
			d := c - rep.MeanCoverage
			if d < 0 {
				d = -d
			}
			rep.MaxDeviation = max(rep.MaxDeviation, d/rep.MeanCoverage)
		}
	}
	rep.Stable = rep.MeanCoverage > 0 && rep.MaxDeviation <= StabilityTolerance

	seen := make(map[packing.Circle]bool, len(firsts))
	for _, c := range firsts {
		seen[c] = true
	}
	rep.Distinct = len(seen)
	return rep
}
