package domain

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		resources      Resources
		earlyEnd       bool
		wantTier       OutcomeTier
		wantMultiplier float64
	}{
		{
			name:           "FloorHitCollapses",
			resources:      Resources{Treasury: 0, Welfare: 50, Stability: 50, Infrastructure: 50},
			wantTier:       TierCollapse,
			wantMultiplier: 0.5,
		},
		{
			name:           "EarlyEndCollapsesRegardlessOfLevels",
			resources:      Resources{Treasury: 60, Welfare: 60, Stability: 60, Infrastructure: 60},
			earlyEnd:       true,
			wantTier:       TierCollapse,
			wantMultiplier: 0.5,
		},
		{
			name:           "AllHighFlourishes",
			resources:      Resources{Treasury: 70, Welfare: 80, Stability: 75, Infrastructure: 90},
			wantTier:       TierFlourishing,
			wantMultiplier: 1.5,
		},
		{
			name:           "StrongMinAndAvgProspers",
			resources:      Resources{Treasury: 45, Welfare: 70, Stability: 65, Infrastructure: 60},
			wantTier:       TierProsperous,
			wantMultiplier: 1.25,
		},
		{
			name:           "MiddleGroundIsStable",
			resources:      Resources{Treasury: 30, Welfare: 50, Stability: 45, Infrastructure: 40},
			wantTier:       TierStable,
			wantMultiplier: 1.0,
		},
		{
			name:           "LowLevelsDecline",
			resources:      Resources{Treasury: 20, Welfare: 30, Stability: 25, Infrastructure: 35},
			wantTier:       TierDeclining,
			wantMultiplier: 0.75,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			tier, multiplier := Classify(test.resources, test.earlyEnd)
			if tier != test.wantTier {
				t.Fatalf("Classify() tier = %s, want %s", tier, test.wantTier)
			}
			if multiplier != test.wantMultiplier {
				t.Fatalf("Classify() multiplier = %v, want %v", multiplier, test.wantMultiplier)
			}
		})
	}
}

func TestTieBreakScoreOrdering(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()

	cheap := TieBreakScore(ResourceDelta{Treasury: -2}, at)
	costly := TieBreakScore(ResourceDelta{Treasury: -10}, at)
	if cheap <= costly {
		t.Fatalf("cheaper option must score higher: %v <= %v", cheap, costly)
	}

	steady := TieBreakScore(ResourceDelta{Treasury: -5, Stability: 6}, at)
	shaky := TieBreakScore(ResourceDelta{Treasury: -5, Stability: 2}, at)
	if steady <= shaky {
		t.Fatalf("higher stability must score higher: %v <= %v", steady, shaky)
	}

	early := TieBreakScore(ResourceDelta{Treasury: -5, Stability: 2}, at)
	late := TieBreakScore(ResourceDelta{Treasury: -5, Stability: 2}, at+1000)
	if early <= late {
		t.Fatalf("earlier submission must score higher: %v <= %v", early, late)
	}
}

func TestSelectWinner(t *testing.T) {
	scenario := &Scenario{
		ID: "test",
		Options: []ScenarioOption{
			{ID: "cheap", Effects: ResourceDelta{Treasury: -2}},
			{ID: "costly", Effects: ResourceDelta{Treasury: -10}},
		},
	}
	base := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)

	proposal := func(id, member, option string, yes, no int, at time.Time) *Proposal {
		return &Proposal{
			ID:          id,
			MemberID:    member,
			OptionID:    option,
			SubmittedAt: at,
			Tally:       Tally{Yes: yes, No: no},
		}
	}

	t.Run("MostYesWins", func(t *testing.T) {
		round := &Round{Proposals: map[string]*Proposal{
			"a": proposal("p1", "a", "costly", 3, 0, base),
			"b": proposal("p2", "b", "cheap", 2, 0, base),
		}}
		if got := SelectWinner(round, scenario); got == nil || got.ID != "p1" {
			t.Fatalf("SelectWinner() = %+v, want p1", got)
		}
	})

	t.Run("YesMustOutnumberNo", func(t *testing.T) {
		round := &Round{Proposals: map[string]*Proposal{
			"a": proposal("p1", "a", "cheap", 2, 2, base),
			"b": proposal("p2", "b", "cheap", 1, 3, base),
		}}
		if got := SelectWinner(round, scenario); got != nil {
			t.Fatalf("SelectWinner() = %+v, want gridlock", got)
		}
	})

	t.Run("EqualYesBreaksOnCost", func(t *testing.T) {
		round := &Round{Proposals: map[string]*Proposal{
			"a": proposal("p1", "a", "costly", 2, 0, base),
			"b": proposal("p2", "b", "cheap", 2, 0, base),
		}}
		if got := SelectWinner(round, scenario); got == nil || got.ID != "p2" {
			t.Fatalf("SelectWinner() = %+v, want cheaper p2", got)
		}
	})

	t.Run("FullTieBreaksOnSubmissionTime", func(t *testing.T) {
		round := &Round{Proposals: map[string]*Proposal{
			"a": proposal("p1", "a", "cheap", 2, 0, base.Add(5*time.Second)),
			"b": proposal("p2", "b", "cheap", 2, 0, base),
		}}
		if got := SelectWinner(round, scenario); got == nil || got.ID != "p2" {
			t.Fatalf("SelectWinner() = %+v, want earlier p2", got)
		}
	})

	t.Run("EmptyRoundHasNoWinner", func(t *testing.T) {
		round := &Round{Proposals: map[string]*Proposal{}}
		if got := SelectWinner(round, scenario); got != nil {
			t.Fatalf("SelectWinner() = %+v, want nil", got)
		}
	})
}

func TestCheckEnd(t *testing.T) {
	healthy := Resources{Treasury: 40, Welfare: 40, Stability: 40, Infrastructure: 40}

	if end := CheckEnd(healthy, 3, 10); end.Ended {
		t.Fatalf("mid-game session must not end: %+v", end)
	}
	if end := CheckEnd(healthy, 10, 10); !end.Ended || end.Early {
		t.Fatalf("exhausted round budget must end normally: %+v", end)
	}
	drained := Resources{Treasury: 40, Welfare: 0, Stability: 40, Infrastructure: 40}
	if end := CheckEnd(drained, 3, 10); !end.Ended || !end.Early {
		t.Fatalf("floor hit must end early: %+v", end)
	}
}

func TestFinalScore(t *testing.T) {
	if got := FinalScore(1000, 1.25); got != 1250 {
		t.Fatalf("FinalScore(1000, 1.25) = %d, want 1250", got)
	}
	if got := FinalScore(300, 0.5); got != 150 {
		t.Fatalf("FinalScore(300, 0.5) = %d, want 150", got)
	}
	if got := FinalScore(500, 0.75); got != 375 {
		t.Fatalf("FinalScore(500, 0.75) = %d, want 375", got)
	}
}
