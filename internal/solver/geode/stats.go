package geode

import "time"

// StepStats describes one minute of the search
type StepStats struct {
	Minute    int // 1-based minute just simulated
	Remaining int // minutes left after this one
	Frontier  int // states expanded
	Generated int // successors produced
	// CappedBuilds counts builds refused because the robot type was at its cap
	CappedBuilds int
	PrunedDedup  int
	PrunedBound  int
	Survivors    int // next frontier size
	Best         int // best geode count known after this minute
}

// Stats aggregates the steps of one search
type Stats struct {
	Steps        []StepStats   `json:"-" yaml:"-"`
	Generated    int           `json:"generated" yaml:"generated"`
	CappedBuilds int           `json:"capped_builds" yaml:"capped_builds"`
	PrunedDedup  int           `json:"pruned_dedup" yaml:"pruned_dedup"`
	PrunedBound  int           `json:"pruned_bound" yaml:"pruned_bound"`
	PeakFrontier int           `json:"peak_frontier" yaml:"peak_frontier"`
	Elapsed      time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}

func (st *Stats) record(step StepStats) {
	st.Steps = append(st.Steps, step)
	st.Generated += step.Generated
	st.CappedBuilds += step.CappedBuilds
	st.PrunedDedup += step.PrunedDedup
	st.PrunedBound += step.PrunedBound
	if step.Frontier > st.PeakFrontier {
		st.PeakFrontier = step.Frontier
	}
}
