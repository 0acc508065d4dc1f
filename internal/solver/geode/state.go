package geode

import (
	"math"

	"github.com/napolitain/geode-solver/internal/models"
)

// Unlimited marks a counter that is never capped
const Unlimited = math.MaxInt

// State is an immutable snapshot of stock and robots.
// The elapsed minute is owned by the search driver, not the state.
// State is comparable and is used directly as the dedup key.
type State struct {
	Resources models.Counts
	Robots    models.Counts
}

// Initial returns the starting state: one ore robot, nothing else
func Initial() State {
	var s State
	s.Robots[models.Ore] = 1
	return s
}

// Geodes returns the target resource collected so far
func (s State) Geodes() int {
	return s.Resources[models.Target]
}

// Caps bounds the state space for one minute of the search
type Caps struct {
	// Robots is the most robots of each type worth owning
	Robots models.Counts
	// Resources is the stock above which a resource can never be spent
	Resources models.Counts
}

// RobotCaps returns the robot caps of a blueprint.
// A non-target robot is only useful while its count is below the most of its
// resource any recipe consumes. Geode robots are never capped.
func RobotCaps(bp models.Blueprint) models.Counts {
	var caps models.Counts
	for _, r := range models.AllResources() {
		if r == models.Target {
			caps[r] = Unlimited
			continue
		}
		caps[r] = bp.MaxSpend(r)
	}
	return caps
}

// NewCaps returns the caps that apply to states with `remaining` minutes left.
// With one build per minute, no more than MaxSpend*remaining of a resource
// can ever be spent, so stock above that is clamped.
func NewCaps(bp models.Blueprint, remaining int) Caps {
	caps := Caps{Robots: RobotCaps(bp)}
	if remaining < 0 {
		remaining = 0
	}
	for _, r := range models.AllResources() {
		if r == models.Target {
			caps.Resources[r] = Unlimited
			continue
		}
		caps.Resources[r] = spendable(bp.MaxSpend(r), remaining)
	}
	return caps
}

// spendable returns perMinute*remaining, saturating at Unlimited
func spendable(perMinute, remaining int) int {
	if perMinute > 0 && remaining > Unlimited/perMinute {
		return Unlimited
	}
	return perMinute * remaining
}

// UncappedCaps disables every cap and clamp
func UncappedCaps() Caps {
	var caps Caps
	for i := range caps.Robots {
		caps.Robots[i] = Unlimited
		caps.Resources[i] = Unlimited
	}
	return caps
}

// advance collects one minute of production from the robots owned at the
// start of the minute
func (s State) advance() State {
	next := s
	for i := range next.Resources {
		next.Resources[i] += s.Robots[i]
	}
	return next
}

func (s State) clamp(caps Caps) State {
	for i := range s.Resources {
		if s.Resources[i] > caps.Resources[i] {
			s.Resources[i] = caps.Resources[i]
		}
	}
	return s
}

// AdvanceTime returns the state one minute later with no build
func (s State) AdvanceTime(caps Caps) State {
	return s.advance().clamp(caps)
}

// Idle is the wait transition. It is always legal.
func (s State) Idle(caps Caps) State {
	return s.AdvanceTime(caps)
}

// CanBuild returns true if the robot is affordable and below its cap
func (s State) CanBuild(robot models.Resource, bp models.Blueprint, caps Caps) bool {
	if s.Robots[robot] >= caps.Robots[robot] {
		return false
	}
	return s.Resources.Covers(bp.RobotCost(robot))
}

// TryBuild pays for a robot with the stock held at the start of the minute.
// The robot joins after this minute's production, so it starts producing
// the minute after. The second return value is false when the build is
// not affordable or the robot type is already at its cap.
func (s State) TryBuild(robot models.Resource, bp models.Blueprint, caps Caps) (State, bool) {
	if !s.CanBuild(robot, bp, caps) {
		return State{}, false
	}

	next := s.advance()
	cost := bp.RobotCost(robot)
	for i := range next.Resources {
		next.Resources[i] -= cost[i]
	}
	next.Robots[robot]++

	return next.clamp(caps), true
}
