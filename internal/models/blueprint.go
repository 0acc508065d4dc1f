package models

import (
	"fmt"
	"strings"
)

// Blueprint is the cost table for the four robot types.
// Costs is indexed by the robot (produced resource), each entry by the
// resource paid. Blueprints are values and are never mutated by the solver.
type Blueprint struct {
	ID    int
	Costs [NumResources]Cost
}

// NewBlueprint builds a Blueprint from the five prices found in blueprint text
func NewBlueprint(id, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian int) Blueprint {
	var bp Blueprint
	bp.ID = id
	bp.Costs[Ore][Ore] = oreRobotOre
	bp.Costs[Clay][Ore] = clayRobotOre
	bp.Costs[Obsidian][Ore] = obsidianRobotOre
	bp.Costs[Obsidian][Clay] = obsidianRobotClay
	bp.Costs[Geode][Ore] = geodeRobotOre
	bp.Costs[Geode][Obsidian] = geodeRobotObsidian
	return bp
}

// Cost returns what a robot of the given type costs in the given resource
func (b Blueprint) Cost(robot, paid Resource) int {
	return b.Costs[robot][paid]
}

// RobotCost returns the full cost of one robot
func (b Blueprint) RobotCost(robot Resource) Cost {
	return b.Costs[robot]
}

// MaxSpend returns the most of a resource any single robot recipe consumes.
// Since at most one robot is built per minute, this is also the most that
// can be spent per minute.
func (b Blueprint) MaxSpend(r Resource) int {
	max := 0
	for _, c := range b.Costs {
		if c[r] > max {
			max = c[r]
		}
	}
	return max
}

// String renders the blueprint in its single-line text form
func (b Blueprint) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blueprint %d:", b.ID)
	for _, robot := range AllResources() {
		fmt.Fprintf(&sb, " Each %s robot costs ", robot)
		var parts []string
		for _, paid := range AllResources() {
			if n := b.Cost(robot, paid); n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, paid))
			}
		}
		if len(parts) == 0 {
			parts = append(parts, "0 ore")
		}
		sb.WriteString(strings.Join(parts, " and "))
		sb.WriteString(".")
	}
	return sb.String()
}
