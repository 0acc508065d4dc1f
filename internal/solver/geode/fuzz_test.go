package geode

import (
	"testing"

	"github.com/napolitain/geode-solver/internal/models"
)

// FuzzTransitions checks the state invariants on random blueprints and states
func FuzzTransitions(f *testing.F) {
	// Seed corpus
	f.Add(uint8(4), uint8(2), uint8(3), uint8(14), uint8(2), uint8(7), uint8(10), uint8(20), uint8(5), uint8(12))
	f.Add(uint8(1), uint8(1), uint8(1), uint8(1), uint8(1), uint8(1), uint8(0), uint8(0), uint8(0), uint8(1))
	f.Add(uint8(0), uint8(0), uint8(0), uint8(0), uint8(0), uint8(0), uint8(255), uint8(255), uint8(255), uint8(0))

	f.Fuzz(func(t *testing.T, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs, ore, clay, obs, remaining uint8) {
		bp := models.NewBlueprint(1, int(oreOre), int(clayOre), int(obsOre), int(obsClay), int(geoOre), int(geoObs))
		s := State{
			Resources: models.Counts{int(ore), int(clay), int(obs), 0},
			Robots:    models.Counts{1, 1, 1, 1},
		}
		caps := NewCaps(bp, int(remaining%33))

		for _, policy := range []Policy{PolicyExhaustive, PolicyGreedy} {
			succ := Successors(s, bp, caps, policy)
			if len(succ) == 0 {
				t.Fatalf("%s: no successors, wait is always legal", policy)
			}
			if policy == PolicyGreedy && len(succ) != 1 {
				t.Errorf("greedy produced %d successors", len(succ))
			}

			for _, tr := range succ {
				for _, r := range models.AllResources() {
					// Property: stock never negative
					if tr.State.Resources[r] < 0 {
						t.Errorf("%s: %s stock negative: %d", tr.Action, r, tr.State.Resources[r])
					}
					// Property: robots never decrease
					if tr.State.Robots[r] < s.Robots[r] {
						t.Errorf("%s: %s robots decreased", tr.Action, r)
					}
					// Property: clamp holds
					if tr.State.Resources[r] > caps.Resources[r] {
						t.Errorf("%s: %s stock %d above cap %d", tr.Action, r, tr.State.Resources[r], caps.Resources[r])
					}
				}
				if tr.State.Geodes() != s.Geodes()+s.Robots[models.Geode] {
					t.Errorf("%s: geodes %d, want %d", tr.Action, tr.State.Geodes(), s.Geodes()+s.Robots[models.Geode])
				}
			}
		}
	})
}

func BenchmarkSolve24(b *testing.B) {
	bps := sampleBlueprints()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, bp := range bps {
			Solve(bp, 24)
		}
	}
}

func BenchmarkSuccessors(b *testing.B) {
	bp := sampleBlueprints()[0]
	caps := NewCaps(bp, 12)
	s := State{
		Resources: models.Counts{10, 20, 10, 0},
		Robots:    models.Counts{2, 4, 2, 1},
	}
	var step StepStats
	var buf []Transition

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = expand(buf[:0], s, bp, caps, PolicyExhaustive, &step)
	}
}
