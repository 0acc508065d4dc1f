package models

import "fmt"

// Resource identifies one of the four resources, and by extension the robot
// type that produces it.
type Resource int

const (
	Ore Resource = iota
	Clay
	Obsidian
	Geode
)

// NumResources is the size of every per-resource array.
const NumResources = 4

// Target is the resource the search maximizes.
const Target = Geode

// AllResources returns all resources in deterministic order
func AllResources() []Resource {
	return []Resource{Ore, Clay, Obsidian, Geode}
}

// String returns the lowercase resource name used in blueprint text
func (r Resource) String() string {
	switch r {
	case Ore:
		return "ore"
	case Clay:
		return "clay"
	case Obsidian:
		return "obsidian"
	case Geode:
		return "geode"
	default:
		return "unknown"
	}
}

// ParseResource maps a resource name back to its Resource
func ParseResource(name string) (Resource, error) {
	for _, r := range AllResources() {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// Cost is the price of one robot, indexed by the resource paid
type Cost [NumResources]int

// Get returns the amount of a resource this cost requires
func (c Cost) Get(r Resource) int {
	return c[r]
}

// Counts holds one counter per resource (stock or robots)
type Counts [NumResources]int

// Get returns the counter for a resource
func (c Counts) Get(r Resource) int {
	return c[r]
}

// Covers returns true if every counter is at least the matching cost
func (c Counts) Covers(cost Cost) bool {
	for i := range c {
		if c[i] < cost[i] {
			return false
		}
	}
	return true
}
