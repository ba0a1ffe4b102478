package domain

import (
	"math/rand"
	"testing"
	"time"
)

func TestPickScenarioExcludesUsed(t *testing.T) {
	deck := []Scenario{
		{ID: "a", Options: []ScenarioOption{{ID: "x"}}},
		{ID: "b", Options: []ScenarioOption{{ID: "x"}}},
		{ID: "c", Options: []ScenarioOption{{ID: "x"}}},
	}
	rng := rand.New(rand.NewSource(1))

	used := map[string]bool{"a": true, "b": true}
	for i := 0; i < 20; i++ {
		if got := PickScenario(deck, used, rng); got.ID != "c" {
			t.Fatalf("PickScenario() = %s, want only unused c", got.ID)
		}
	}
}

func TestPickScenarioRepeatsAfterExhaustion(t *testing.T) {
	deck := []Scenario{
		{ID: "a", Options: []ScenarioOption{{ID: "x"}}},
		{ID: "b", Options: []ScenarioOption{{ID: "x"}}},
	}
	rng := rand.New(rand.NewSource(1))

	used := map[string]bool{"a": true, "b": true}
	got := PickScenario(deck, used, rng)
	if got.ID != "a" && got.ID != "b" {
		t.Fatalf("PickScenario() = %s, want a repeat from the deck", got.ID)
	}
}

func TestNoActionOptionAlwaysResolves(t *testing.T) {
	sc := &Scenario{ID: "a", Options: []ScenarioOption{{ID: "x", Effects: ResourceDelta{Treasury: -5}}}}

	opt := sc.Option(NoActionOptionID)
	if opt == nil {
		t.Fatal("no-action option must resolve for every scenario")
	}
	delta, ok := sc.OptionDelta(NoActionOptionID)
	if !ok || !delta.IsZero() {
		t.Fatalf("no-action delta = %+v (ok=%t), want zero effect", delta, ok)
	}
	if _, ok := sc.OptionDelta("missing"); ok {
		t.Fatal("unknown option must not resolve")
	}
}

func TestNewNoActionProposal(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewNoActionProposal("pid", "member-1", at)

	if p.OptionID != NoActionOptionID {
		t.Fatalf("OptionID = %s, want %s", p.OptionID, NoActionOptionID)
	}
	if p.MemberID != "member-1" || p.ID != "pid" || !p.SubmittedAt.Equal(at) {
		t.Fatalf("unexpected proposal fields: %+v", p)
	}
	if p.Votes == nil {
		t.Fatal("votes map must be initialized")
	}
}

func TestRecomputeTally(t *testing.T) {
	p := &Proposal{ID: "p", Votes: map[string]Vote{
		"a": {Choice: VoteYes},
		"b": {Choice: VoteYes},
		"c": {Choice: VoteNo},
		"d": {Choice: VoteAbstain},
	}}
	p.RecomputeTally()

	if p.Tally.Yes != 2 || p.Tally.No != 1 || p.Tally.Abstain != 1 {
		t.Fatalf("Tally = %+v, want 2/1/1", p.Tally)
	}
}
