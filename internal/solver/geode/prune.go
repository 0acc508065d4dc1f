package geode

import "github.com/napolitain/geode-solver/internal/models"

// UpperBound is the most geodes a state can end with after `remaining`
// minutes: the current stock, the current robots running to the horizon, and
// a new geode robot every remaining minute.
func UpperBound(s State, remaining int) int {
	if remaining <= 0 {
		return s.Geodes()
	}
	g := s.Robots[models.Target]
	return s.Geodes() + g*remaining + remaining*(remaining-1)/2
}

// Floor is the geode count a state is guaranteed to reach by waiting until
// the horizon
func Floor(s State, remaining int) int {
	if remaining <= 0 {
		return s.Geodes()
	}
	return s.Geodes() + s.Robots[models.Target]*remaining
}

// frontier collects the states of one minute, optionally dropping exact
// duplicates. Insertion order is kept so the search stays deterministic.
type frontier struct {
	states []State
	seen   map[State]struct{}
}

func newFrontier(capacity int, dedup bool) *frontier {
	f := &frontier{states: make([]State, 0, capacity)}
	if dedup {
		f.seen = make(map[State]struct{}, capacity)
	}
	return f
}

// add stores s and returns false if an identical state is already present
func (f *frontier) add(s State) bool {
	if f.seen != nil {
		if _, dup := f.seen[s]; dup {
			return false
		}
		f.seen[s] = struct{}{}
	}
	f.states = append(f.states, s)
	return true
}

// retainPromising drops, in place, every state whose upper bound cannot beat
// best, and returns the survivors with the number dropped
func retainPromising(states []State, remaining, best int) ([]State, int) {
	kept := states[:0]
	dropped := 0
	for _, s := range states {
		if UpperBound(s, remaining) <= best {
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	return kept, dropped
}
