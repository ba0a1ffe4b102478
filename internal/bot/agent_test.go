package bot

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"council/internal/domain"
)

var agentScenario = domain.Scenario{
	ID: "drought",
	Options: []domain.ScenarioOption{
		{ID: "relief", Label: "Fund drought relief", Effects: domain.ResourceDelta{Treasury: -10, Welfare: 8}},
		{ID: "ignore", Label: "Let the fields wither", Effects: domain.ResourceDelta{Welfare: -12, Stability: -6}},
	},
}

func TestChooseOptionProtectsTheMinimum(t *testing.T) {
	agent := NewAgent(rand.New(rand.NewSource(1)))
	current := domain.Resources{Treasury: 60, Welfare: 30, Stability: 50, Infrastructure: 50}

	// relief: min becomes 38 (welfare). ignore: min becomes 18.
	if got := agent.ChooseOption(agentScenario, current); got != "relief" {
		t.Fatalf("ChooseOption() = %s, want relief", got)
	}
}

func TestChooseOptionWithoutOptionsFallsBack(t *testing.T) {
	agent := NewAgent(rand.New(rand.NewSource(1)))
	sc := domain.Scenario{ID: "empty"}

	if got := agent.ChooseOption(sc, domain.Resources{}); got != domain.NoActionOptionID {
		t.Fatalf("ChooseOption() = %s, want no-action fallback", got)
	}
}

func TestVoteFollowsProjectedMinimum(t *testing.T) {
	agent := NewAgent(rand.New(rand.NewSource(1)))
	current := domain.Resources{Treasury: 60, Welfare: 30, Stability: 50, Infrastructure: 50}

	yes, no := 0, 0
	for i := 0; i < 200; i++ {
		switch agent.Vote(agentScenario, current, &domain.Proposal{OptionID: "relief"}) {
		case domain.VoteYes:
			yes++
		case domain.VoteNo:
			no++
		}
	}
	if no != 0 || yes == 0 {
		t.Fatalf("relief votes = %d yes / %d no, want only yes outside abstains", yes, no)
	}

	yes, no = 0, 0
	for i := 0; i < 200; i++ {
		switch agent.Vote(agentScenario, current, &domain.Proposal{OptionID: "ignore"}) {
		case domain.VoteYes:
			yes++
		case domain.VoteNo:
			no++
		}
	}
	if yes != 0 || no == 0 {
		t.Fatalf("ignore votes = %d yes / %d no, want only no outside abstains", yes, no)
	}
}

func TestVoteRejectsUnknownOption(t *testing.T) {
	agent := NewAgent(rand.New(rand.NewSource(7)))

	sawNo := false
	for i := 0; i < 50; i++ {
		v := agent.Vote(agentScenario, domain.Resources{}, &domain.Proposal{OptionID: "bogus"})
		if v == domain.VoteYes {
			t.Fatal("unknown option must never earn a yes")
		}
		if v == domain.VoteNo {
			sawNo = true
		}
	}
	if !sawNo {
		t.Fatal("unknown option should draw no votes")
	}
}

func TestDelaySecStaysInRange(t *testing.T) {
	agent := NewAgent(rand.New(rand.NewSource(1)))

	for i := 0; i < 100; i++ {
		d := agent.DelaySec(2, 8)
		if d < 2 || d > 8 {
			t.Fatalf("DelaySec(2, 8) = %d, out of range", d)
		}
	}
	if d := agent.DelaySec(5, 5); d != 5 {
		t.Fatalf("DelaySec(5, 5) = %d, want 5", d)
	}
	if d := agent.DelaySec(5, 3); d != 5 {
		t.Fatalf("DelaySec(5, 3) = %d, want min on inverted range", d)
	}
}

func TestIsBot(t *testing.T) {
	if !IsBot(IDPrefix + "aldric") {
		t.Fatal("prefixed id must be a bot")
	}
	if IsBot("5f6b1c1e-aldric") {
		t.Fatal("plain id must not be a bot")
	}
}

func TestPickExcludesInUse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inUse := map[string]bool{
		DefaultIdentities[0].UserID: true,
		DefaultIdentities[1].UserID: true,
	}

	picked := Pick(rng, DefaultIdentities, 3, inUse)
	if len(picked) != 3 {
		t.Fatalf("picked %d identities, want 3", len(picked))
	}
	for _, id := range picked {
		if inUse[id.UserID] {
			t.Fatalf("picked in-use identity %s", id.UserID)
		}
	}

	// Asking for more than the pool holds returns every free identity.
	all := Pick(rng, DefaultIdentities, 100, inUse)
	if len(all) != len(DefaultIdentities)-2 {
		t.Fatalf("picked %d identities, want %d", len(all), len(DefaultIdentities)-2)
	}
}

func TestLoadIdentities(t *testing.T) {
	pool, err := LoadIdentities("")
	if err != nil || len(pool) != len(DefaultIdentities) {
		t.Fatalf("LoadIdentities(\"\") = %d identities, %v; want built-in pool", len(pool), err)
	}

	path := filepath.Join(t.TempDir(), "bots.json")
	content := `[{"user_id":"odette","display_name":"Councilor Odette"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	pool, err = LoadIdentities(path)
	if err != nil {
		t.Fatalf("LoadIdentities() error: %v", err)
	}
	if len(pool) != 1 || !strings.HasPrefix(pool[0].UserID, IDPrefix) {
		t.Fatalf("pool = %+v, want single prefixed identity", pool)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte(`[{"user_id":"x"}]`), 0o600)
	if _, err := LoadIdentities(bad); err == nil {
		t.Fatal("identity without display name must be rejected")
	}
}
