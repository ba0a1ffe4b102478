package bot

import (
	"math/rand"
	"time"

	"council/internal/domain"
)

// Agent picks scenario options and votes for synthetic members. Decisions
// are greedy on the projected resource minimum so bots steer away from the
// collapse threshold rather than play optimally.
type Agent struct {
	rng *rand.Rand
}

// NewAgent constructs an agent; rng may be nil to use a time-seeded default.
func NewAgent(rng *rand.Rand) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{rng: rng}
}

// ChooseOption returns the scenario option whose projected resources have
// the highest minimum, breaking ties toward the higher average.
func (a *Agent) ChooseOption(sc domain.Scenario, current domain.Resources) string {
	bestID := ""
	bestMin := 0
	bestAvg := 0.0
	for _, opt := range sc.Options {
		next := current.Apply(opt.Effects)
		m, avg := next.Min(), next.Avg()
		if bestID == "" || m > bestMin || (m == bestMin && avg > bestAvg) {
			bestID, bestMin, bestAvg = opt.ID, m, avg
		}
	}
	if bestID == "" {
		return domain.NoActionOptionID
	}
	return bestID
}

// Vote decides a bot's stance on another member's proposal: yes when the
// proposed option does not lower the projected minimum below what standing
// still would, no when it does, with a small chance of abstaining either way.
func (a *Agent) Vote(sc domain.Scenario, current domain.Resources, p *domain.Proposal) domain.VoteChoice {
	if a.rng.Intn(10) == 0 {
		return domain.VoteAbstain
	}
	delta, ok := sc.OptionDelta(p.OptionID)
	if !ok {
		return domain.VoteNo
	}
	if current.Apply(delta).Min() >= current.Min() {
		return domain.VoteYes
	}
	return domain.VoteNo
}

// Rationale produces a short flavor line for a bot proposal.
func (a *Agent) Rationale(sc domain.Scenario, optionID string) string {
	opt := sc.Option(optionID)
	if opt == nil || opt.Label == "" {
		return "We should hold steady this round."
	}
	lines := []string{
		"The council should act: ",
		"I see no better course than: ",
		"For the good of the realm: ",
	}
	return lines[a.rng.Intn(len(lines))] + opt.Label
}

// DelaySec returns a random think delay in whole seconds within [min, max].
func (a *Agent) DelaySec(min, max int) int {
	if max <= min {
		return min
	}
	return min + a.rng.Intn(max-min+1)
}
