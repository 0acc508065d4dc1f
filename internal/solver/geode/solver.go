package geode

import (
	"context"
	"time"

	"github.com/napolitain/geode-solver/internal/models"
)

// Options tunes a search
type Options struct {
	Policy Policy
	// DisableDedup keeps duplicate states in the frontier. Only useful to
	// check that dedup never changes the result.
	DisableDedup bool
	// OnStep, when set, is called after every simulated minute
	OnStep func(StepStats)
}

// Result is the outcome of one search
type Result struct {
	BlueprintID int    `json:"blueprint" yaml:"blueprint"`
	Horizon     int    `json:"horizon" yaml:"horizon"`
	Policy      Policy `json:"policy" yaml:"policy"`
	Geodes      int    `json:"geodes" yaml:"geodes"`
	Stats       Stats  `json:"stats" yaml:"stats"`
}

// Quality returns the blueprint id multiplied by the geode count
func (r Result) Quality() int {
	return r.BlueprintID * r.Geodes
}

// Solver is a breadth-first branch-and-bound search over one blueprint.
// The frontier lives only for the duration of a Solve call, so one Solver
// per goroutine or a shared Solver are both safe.
type Solver struct {
	Blueprint models.Blueprint
	Options   Options
}

// NewSolver creates a solver for a blueprint
func NewSolver(bp models.Blueprint, opts Options) *Solver {
	return &Solver{
		Blueprint: bp,
		Options:   opts,
	}
}

// Solve returns the most geodes the blueprint can open in `horizon` minutes
// using the exhaustive policy
func Solve(bp models.Blueprint, horizon int) int {
	res, _ := NewSolver(bp, Options{}).Solve(context.Background(), horizon)
	return res.Geodes
}

// Solve runs the search for `horizon` minutes.
// ctx is checked between minutes; on cancellation the best value found so
// far is returned together with ctx.Err().
func (s *Solver) Solve(ctx context.Context, horizon int) (Result, error) {
	start := time.Now()
	res := Result{
		BlueprintID: s.Blueprint.ID,
		Horizon:     horizon,
		Policy:      s.Options.Policy,
	}

	current := []State{Initial()}
	best := 0
	var successors []Transition

	for minute := 1; minute <= horizon && len(current) > 0; minute++ {
		if err := ctx.Err(); err != nil {
			res.Geodes = best
			res.Stats.Elapsed = time.Since(start)
			return res, err
		}

		remaining := horizon - minute
		caps := NewCaps(s.Blueprint, remaining)
		step := StepStats{
			Minute:    minute,
			Remaining: remaining,
			Frontier:  len(current),
		}

		// 1. Expand every state; robot caps are enforced by the generator
		// and exact duplicates are dropped on insertion
		next := newFrontier(len(current)*2, !s.Options.DisableDedup)
		for _, state := range current {
			successors = expand(successors[:0], state, s.Blueprint, caps, s.Options.Policy, &step)
			for _, t := range successors {
				step.Generated++
				if floor := Floor(t.State, remaining); floor > best {
					best = floor
				}
				if !next.add(t.State) {
					step.PrunedDedup++
				}
			}
		}

		// 2. Drop states that cannot beat the best committed count
		current, step.PrunedBound = retainPromising(next.states, remaining, best)

		step.Survivors = len(current)
		step.Best = best
		res.Stats.record(step)
		if s.Options.OnStep != nil {
			s.Options.OnStep(step)
		}
	}

	res.Geodes = best
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}
