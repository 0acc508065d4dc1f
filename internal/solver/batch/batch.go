// Package batch evaluates many blueprints concurrently and aggregates their
// results.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/geode-solver/internal/metrics"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// Options configures an Evaluator
type Options struct {
	// Workers bounds the number of searches running at once.
	// Zero or less uses one worker per CPU.
	Workers int
	Policy  geode.Policy
	// DisableDedup is forwarded to every search
	DisableDedup bool
	// Logger receives one debug record per search and per simulated minute.
	// Nil disables logging.
	Logger *slog.Logger
	// Recorder receives the statistics of every finished search. Nil disables it.
	Recorder metrics.SearchRecorder
}

// Evaluator runs one independent search per blueprint
type Evaluator struct {
	opts Options
}

// Report is the outcome of a full run
type Report struct {
	Horizon    int            `json:"horizon" yaml:"horizon"`
	Results    []geode.Result `json:"results" yaml:"results"`
	QualitySum int            `json:"quality_sum" yaml:"quality_sum"`

	// Product of the geode counts of the first Top blueprints at TopHorizon.
	// Zero when Top is zero.
	Top        int            `json:"top,omitempty" yaml:"top,omitempty"`
	TopHorizon int            `json:"top_horizon,omitempty" yaml:"top_horizon,omitempty"`
	TopResults []geode.Result `json:"top_results,omitempty" yaml:"top_results,omitempty"`
	Product    int            `json:"product,omitempty" yaml:"product,omitempty"`
}

// NewEvaluator creates an evaluator
func NewEvaluator(opts Options) *Evaluator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Evaluator{opts: opts}
}

// Workers returns the effective concurrency limit
func (e *Evaluator) Workers() int {
	return e.opts.Workers
}

// SolveAll solves every blueprint for `horizon` minutes.
// Results keep the input order. The first failing search cancels the others
// and its error is returned.
func (e *Evaluator) SolveAll(ctx context.Context, blueprints []models.Blueprint, horizon int) ([]geode.Result, error) {
	results := make([]geode.Result, len(blueprints))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, bp := range blueprints {
		g.Go(func() error {
			res, err := e.solveOne(gCtx, bp, horizon)
			if err != nil {
				return fmt.Errorf("blueprint %d: %w", bp.ID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run solves every blueprint for `horizon` minutes, then the first `top`
// blueprints for `topHorizon` minutes
func (e *Evaluator) Run(ctx context.Context, blueprints []models.Blueprint, horizon, top, topHorizon int) (Report, error) {
	report := Report{Horizon: horizon}

	results, err := e.SolveAll(ctx, blueprints, horizon)
	if err != nil {
		return report, err
	}
	report.Results = results
	report.QualitySum = QualitySum(results)

	if top <= 0 {
		return report, nil
	}

	leading := blueprints[:min(top, len(blueprints))]
	topResults, err := e.SolveAll(ctx, leading, topHorizon)
	if err != nil {
		return report, err
	}
	report.Top = top
	report.TopHorizon = topHorizon
	report.TopResults = topResults
	report.Product = Product(topResults, top)

	return report, nil
}

func (e *Evaluator) solveOne(ctx context.Context, bp models.Blueprint, horizon int) (geode.Result, error) {
	opts := geode.Options{
		Policy:       e.opts.Policy,
		DisableDedup: e.opts.DisableDedup,
	}

	logger := e.opts.Logger
	if logger != nil {
		logger = logger.With("blueprint", bp.ID)
	}
	if logger != nil && logger.Enabled(ctx, slog.LevelDebug) {
		opts.OnStep = func(step geode.StepStats) {
			logger.Debug("search step",
				"minute", step.Minute,
				"frontier", step.Frontier,
				"generated", step.Generated,
				"pruned_dedup", step.PrunedDedup,
				"pruned_bound", step.PrunedBound,
				"best", step.Best)
		}
	}

	res, err := geode.NewSolver(bp, opts).Solve(ctx, horizon)
	if err != nil {
		return res, err
	}

	if e.opts.Recorder != nil {
		e.opts.Recorder.RecordSearch(res.Policy.String(), res.Stats)
	}
	if logger != nil {
		logger.Debug("blueprint solved",
			"horizon", horizon,
			"policy", res.Policy.String(),
			"geodes", res.Geodes,
			"quality", res.Quality(),
			"peak_frontier", res.Stats.PeakFrontier,
			"elapsed", res.Stats.Elapsed)
	}
	return res, nil
}

// QualitySum returns the sum of id × geodes over all results
func QualitySum(results []geode.Result) int {
	sum := 0
	for _, r := range results {
		sum += r.Quality()
	}
	return sum
}

// Product returns the product of the geode counts of the first n results.
// An empty selection yields 1.
func Product(results []geode.Result, n int) int {
	product := 1
	for _, r := range results[:max(0, min(n, len(results)))] {
		product *= r.Geodes
	}
	return product
}
