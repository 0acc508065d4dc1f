package geode

import (
	"testing"

	"github.com/napolitain/geode-solver/internal/models"
)

func TestUpperBound(t *testing.T) {
	tests := []struct {
		name      string
		geodes    int
		robots    int
		remaining int
		want      int
	}{
		{"horizon reached", 5, 3, 0, 5},
		{"one minute left", 5, 3, 1, 8},
		{"no robots", 0, 0, 4, 6},
		{"robots and stock", 2, 1, 3, 2 + 3 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{}
			s.Resources[models.Geode] = tt.geodes
			s.Robots[models.Geode] = tt.robots
			if got := UpperBound(s, tt.remaining); got != tt.want {
				t.Errorf("UpperBound = %d, want %d", got, tt.want)
			}
			if floor := Floor(s, tt.remaining); floor > UpperBound(s, tt.remaining) {
				t.Errorf("Floor %d above UpperBound", floor)
			}
		})
	}
}

func TestFrontierDedup(t *testing.T) {
	a := Initial()
	b := Initial().AdvanceTime(UncappedCaps())

	f := newFrontier(4, true)
	if !f.add(a) || !f.add(b) {
		t.Fatal("distinct states rejected")
	}
	if f.add(a) {
		t.Error("duplicate state accepted")
	}
	if len(f.states) != 2 {
		t.Errorf("frontier holds %d states, want 2", len(f.states))
	}

	noDedup := newFrontier(4, false)
	noDedup.add(a)
	if !noDedup.add(a) {
		t.Error("frontier without dedup rejected a duplicate")
	}
}

func TestRetainPromising(t *testing.T) {
	low := State{}
	high := State{}
	high.Robots[models.Geode] = 2

	kept, dropped := retainPromising([]State{low, high, low}, 3, 5)

	// low bound is 3, high bound is 6+3
	if dropped != 2 || len(kept) != 1 || kept[0] != high {
		t.Errorf("kept %v dropped %d, want only the state with geode robots", kept, dropped)
	}
}

// bruteForce explores every legal move without any pruning, checking on the
// way that the optimistic bound never underestimates the true optimum
func bruteForce(t *testing.T, bp models.Blueprint, s State, remaining int) int {
	t.Helper()
	if remaining == 0 {
		return s.Geodes()
	}

	caps := UncappedCaps()
	best := bruteForce(t, bp, s.Idle(caps), remaining-1)
	for _, robot := range models.AllResources() {
		if next, ok := s.TryBuild(robot, bp, caps); ok {
			if got := bruteForce(t, bp, next, remaining-1); got > best {
				best = got
			}
		}
	}

	if bound := UpperBound(s, remaining); bound < best {
		t.Fatalf("UpperBound(%+v, %d) = %d below optimum %d", s, remaining, bound, best)
	}
	return best
}

func TestUpperBoundSafety(t *testing.T) {
	tests := []struct {
		name    string
		bp      models.Blueprint
		horizon int
	}{
		{"everything costs one", models.NewBlueprint(9, 1, 1, 1, 1, 1, 1), 8},
		{"free geode robots", models.NewBlueprint(10, 1, 1, 1, 1, 0, 0), 7},
		{"sample blueprint", sampleBlueprints()[0], 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := bruteForce(t, tt.bp, Initial(), tt.horizon)
			if got := Solve(tt.bp, tt.horizon); got != want {
				t.Errorf("Solve = %d, brute force = %d", got, want)
			}
		})
	}
}
