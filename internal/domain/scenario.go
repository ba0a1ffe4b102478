package domain

import (
	"math/rand"
	"time"
)

// NoActionOptionID is the synthetic option used when a member never
// proposed: it is always valid and changes nothing.
const NoActionOptionID = "no_action"

// ScenarioOption is one fixed response to a scenario.
type ScenarioOption struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Effects ResourceDelta `json:"effects"`
}

// Scenario is the event shown at the start of a round, with its fixed
// option set.
type Scenario struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Narrative string           `json:"narrative"`
	Options   []ScenarioOption `json:"options"`
}

// Option returns the option with the given id, or nil. The synthetic
// no-action option resolves for every scenario.
func (s *Scenario) Option(id string) *ScenarioOption {
	if id == NoActionOptionID {
		return &ScenarioOption{ID: NoActionOptionID, Label: "Take no action"}
	}
	for i := range s.Options {
		if s.Options[i].ID == id {
			return &s.Options[i]
		}
	}
	return nil
}

// OptionDelta returns the resource effects of an option. ok is false for an
// unknown option id.
func (s *Scenario) OptionDelta(id string) (ResourceDelta, bool) {
	opt := s.Option(id)
	if opt == nil {
		return ResourceDelta{}, false
	}
	return opt.Effects, true
}

// PickScenario selects a random scenario not yet used this session. Once the
// deck is exhausted any scenario may repeat.
func PickScenario(deck []Scenario, used map[string]bool, rng *rand.Rand) Scenario {
	var fresh []Scenario
	for _, sc := range deck {
		if !used[sc.ID] {
			fresh = append(fresh, sc)
		}
	}
	pool := fresh
	if len(pool) == 0 {
		pool = deck
	}
	return pool[rng.Intn(len(pool))]
}

// NewNoActionProposal builds the synthetic zero-effect proposal recorded for
// members who never submitted one, so every member always holds exactly one
// proposal per round.
func NewNoActionProposal(id, memberID string, at time.Time) *Proposal {
	return &Proposal{
		ID:          id,
		MemberID:    memberID,
		OptionID:    NoActionOptionID,
		SubmittedAt: at,
		Votes:       map[string]Vote{},
	}
}
