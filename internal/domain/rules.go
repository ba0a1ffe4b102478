package domain

import (
	"math"
	"sort"
)

// OutcomeTier classifies a finished session by its final resource levels.
type OutcomeTier string

const (
	TierCollapse    OutcomeTier = "collapse"    // early end or any resource at the floor
	TierDeclining   OutcomeTier = "declining"   // fallback tier
	TierStable      OutcomeTier = "stable"      // held the middle ground
	TierProsperous  OutcomeTier = "prosperous"  // strong minimum and average
	TierFlourishing OutcomeTier = "flourishing" // everything high
)

// tieBreakEpsilon weights submission time so it only splits exact
// (cost, stability) ties: one millisecond is worth 1e-9 score, far below the
// 0.5 granularity of integer impacts.
const tieBreakEpsilon = 1e-9

// TieBreakScore ranks proposals with equal yes-votes. Cheaper treasury
// impact wins, then higher stability impact, then earlier submission.
// submittedAtMillis is the proposal's submission time in unix milliseconds.
func TieBreakScore(d ResourceDelta, submittedAtMillis int64) float64 {
	return float64(d.Treasury) + 0.5*float64(d.Stability) - tieBreakEpsilon*float64(submittedAtMillis)
}

// SelectWinner picks the winning proposal of a round: most yes-votes among
// proposals where yes outnumbers no, ties broken by TieBreakScore. Returns
// nil when no proposal qualifies (gridlock).
func SelectWinner(round *Round, scenario *Scenario) *Proposal {
	var eligible []*Proposal
	for _, p := range round.Proposals {
		if p.Tally.Yes > p.Tally.No {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	score := func(p *Proposal) float64 {
		delta, _ := scenario.OptionDelta(p.OptionID)
		return TieBreakScore(delta, p.SubmittedAt.UnixMilli())
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Tally.Yes != eligible[j].Tally.Yes {
			return eligible[i].Tally.Yes > eligible[j].Tally.Yes
		}
		return score(eligible[i]) > score(eligible[j])
	})
	return eligible[0]
}

// EndCheck is the result of evaluating the session's end conditions.
type EndCheck struct {
	Ended bool
	Early bool
}

// CheckEnd evaluates end conditions after a round resolved: early when any
// resource hit the floor, normal when the round budget is exhausted.
func CheckEnd(r Resources, roundsResolved, roundTarget int) EndCheck {
	if r.Min() <= ResourceFloor {
		return EndCheck{Ended: true, Early: true}
	}
	if roundsResolved >= roundTarget {
		return EndCheck{Ended: true}
	}
	return EndCheck{}
}

// Classify maps final resources to an outcome tier and score multiplier.
// Tiers are checked in priority order; an early end always collapses.
func Classify(final Resources, earlyEnd bool) (OutcomeTier, float64) {
	min := final.Min()
	avg := final.Avg()

	switch {
	case earlyEnd || min <= ResourceFloor:
		return TierCollapse, 0.5
	case min >= 70:
		return TierFlourishing, 1.5
	case min >= 45 && avg >= 60:
		return TierProsperous, 1.25
	case min >= 25 && avg >= 40 && avg < 60:
		return TierStable, 1.0
	default:
		return TierDeclining, 0.75
	}
}

// FinalScore applies the outcome multiplier to the base score.
func FinalScore(base int, multiplier float64) int {
	return int(math.Round(float64(base) * multiplier))
}

// DefaultGridlockPenalty is applied when a round resolves with no winning
// proposal: unrest and neglect, but nothing spent.
var DefaultGridlockPenalty = ResourceDelta{Stability: -4, Welfare: -4}
