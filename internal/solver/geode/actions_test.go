package geode

import (
	"testing"

	"github.com/napolitain/geode-solver/internal/models"
)

func TestSuccessorsOrderAndWait(t *testing.T) {
	bp := sampleBlueprints()[0]
	s := State{
		Resources: models.Counts{10, 20, 10, 0},
		Robots:    models.Counts{1, 1, 1, 0},
	}

	got := Successors(s, bp, UncappedCaps(), PolicyExhaustive)

	want := []Action{BuildGeode, BuildObsidian, BuildOre, BuildClay, Wait}
	if len(got) != len(want) {
		t.Fatalf("got %d successors, want %d", len(got), len(want))
	}
	for i, tr := range got {
		if tr.Action != want[i] {
			t.Errorf("successor %d = %s, want %s", i, tr.Action, want[i])
		}
	}

	last := got[len(got)-1]
	if last.State != s.Idle(UncappedCaps()) {
		t.Errorf("wait successor = %+v, want idle state", last.State)
	}
}

func TestSuccessorsOnlyAffordable(t *testing.T) {
	bp := sampleBlueprints()[0]

	got := Successors(Initial(), bp, UncappedCaps(), PolicyExhaustive)
	if len(got) != 1 || got[0].Action != Wait {
		t.Fatalf("initial state successors = %v, want only wait", got)
	}

	s := State{Resources: models.Counts{2, 0, 0, 0}, Robots: models.Counts{1, 0, 0, 0}}
	got = Successors(s, bp, UncappedCaps(), PolicyExhaustive)
	if len(got) != 2 || got[0].Action != BuildClay || got[1].Action != Wait {
		t.Errorf("successors with 2 ore = %v, want [clay, wait]", got)
	}
}

func TestSuccessorsGreedyStopsAtFirstBuild(t *testing.T) {
	bp := sampleBlueprints()[0]
	s := State{
		Resources: models.Counts{10, 20, 10, 0},
		Robots:    models.Counts{1, 1, 1, 0},
	}

	got := Successors(s, bp, UncappedCaps(), PolicyGreedy)
	if len(got) != 1 || got[0].Action != BuildGeode {
		t.Errorf("greedy successors = %v, want only the geode build", got)
	}

	// Nothing affordable: greedy still waits
	got = Successors(Initial(), bp, UncappedCaps(), PolicyGreedy)
	if len(got) != 1 || got[0].Action != Wait {
		t.Errorf("greedy successors of initial state = %v, want wait", got)
	}
}

func TestSuccessorsCountsCappedBuilds(t *testing.T) {
	bp := sampleBlueprints()[0]
	caps := NewCaps(bp, 10)
	s := State{
		Resources: models.Counts{10, 0, 0, 0},
		Robots:    models.Counts{4, 0, 0, 0},
	}

	var step StepStats
	got := expand(nil, s, bp, caps, PolicyExhaustive, &step)

	if step.CappedBuilds != 1 {
		t.Errorf("CappedBuilds = %d, want 1", step.CappedBuilds)
	}
	for _, tr := range got {
		if tr.Action == BuildOre {
			t.Error("ore robot built beyond its cap")
		}
	}
}

func TestActionRobot(t *testing.T) {
	for _, r := range models.AllResources() {
		got, ok := BuildAction(r).Robot()
		if !ok || got != r {
			t.Errorf("BuildAction(%s).Robot() = %s, %v", r, got, ok)
		}
	}
	if _, ok := Wait.Robot(); ok {
		t.Error("Wait should not build a robot")
	}
	if BuildObsidian.String() != "build obsidian robot" {
		t.Errorf("BuildObsidian.String() = %q", BuildObsidian.String())
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyExhaustive, false},
		{"exhaustive", PolicyExhaustive, false},
		{"greedy", PolicyGreedy, false},
		{"random", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	var p Policy
	if err := p.UnmarshalText([]byte("greedy")); err != nil || p != PolicyGreedy {
		t.Errorf("UnmarshalText(greedy) = %s, %v", p, err)
	}
	text, _ := PolicyExhaustive.MarshalText()
	if string(text) != "exhaustive" {
		t.Errorf("MarshalText = %q", text)
	}
}
