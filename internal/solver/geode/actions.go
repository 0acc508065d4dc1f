package geode

import (
	"fmt"

	"github.com/napolitain/geode-solver/internal/models"
)

// Action is the decision taken for one minute
type Action int

const (
	BuildOre Action = iota
	BuildClay
	BuildObsidian
	BuildGeode
	Wait
)

// String returns a short description of the action
func (a Action) String() string {
	switch a {
	case BuildOre, BuildClay, BuildObsidian, BuildGeode:
		return fmt.Sprintf("build %s robot", models.Resource(a))
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Robot returns the robot built by this action. ok is false for Wait.
func (a Action) Robot() (robot models.Resource, ok bool) {
	if a >= BuildOre && a <= BuildGeode {
		return models.Resource(a), true
	}
	return 0, false
}

// BuildAction returns the action that builds the given robot
func BuildAction(robot models.Resource) Action {
	return Action(robot)
}

// BuildPriority is the order in which builds are tried.
// Geode first since it is the only resource that scores.
var BuildPriority = [models.NumResources]models.Resource{
	models.Geode,
	models.Obsidian,
	models.Ore,
	models.Clay,
}

// Policy decides which of the legal successors are explored
type Policy int

const (
	// PolicyExhaustive explores every affordable build and the wait branch.
	// Results are exact.
	PolicyExhaustive Policy = iota
	// PolicyGreedy commits to the first affordable build in BuildPriority
	// and waits only when nothing is affordable. Faster, can miss the optimum.
	PolicyGreedy
)

// String returns the policy name
func (p Policy) String() string {
	switch p {
	case PolicyExhaustive:
		return "exhaustive"
	case PolicyGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy maps a policy name to a Policy. Empty means exhaustive.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "exhaustive":
		return PolicyExhaustive, nil
	case "greedy":
		return PolicyGreedy, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want exhaustive or greedy)", name)
	}
}

// Transition is one successor together with the action that produced it
type Transition struct {
	Action Action
	State  State
}

// Successors returns the successors of s for one minute, builds in
// BuildPriority order followed by the wait branch
func Successors(s State, bp models.Blueprint, caps Caps, policy Policy) []Transition {
	var step StepStats
	return expand(nil, s, bp, caps, policy, &step)
}

// expand appends the successors of s to dst and counts builds refused by a
// robot cap
func expand(dst []Transition, s State, bp models.Blueprint, caps Caps, policy Policy, step *StepStats) []Transition {
	for _, robot := range BuildPriority {
		if s.Robots[robot] >= caps.Robots[robot] {
			step.CappedBuilds++
			continue
		}
		next, ok := s.TryBuild(robot, bp, caps)
		if !ok {
			continue
		}
		dst = append(dst, Transition{Action: BuildAction(robot), State: next})
		if policy == PolicyGreedy {
			return dst
		}
	}

	// Greedy reaches this point only when nothing was affordable
	return append(dst, Transition{Action: Wait, State: s.Idle(caps)})
}
