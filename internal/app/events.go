package app

import (
	"time"

	"council/internal/domain"
)

// EventKind identifies emitted session events for gateway dispatch.
type EventKind string

const (
	EventSessionState       EventKind = "session_state" // targeted: sent to the joining member only
	EventMemberJoined       EventKind = "member_joined"
	EventMemberLeft         EventKind = "member_left"
	EventReadyChanged       EventKind = "ready_changed"
	EventCountdownStarted   EventKind = "countdown_started"
	EventCountdownCancelled EventKind = "countdown_cancelled"
	EventGameStarted        EventKind = "game_started"
	EventRoundStarted       EventKind = "round_started"
	EventProposalPhase      EventKind = "proposal_phase_started"
	EventNewProposal        EventKind = "new_proposal"
	EventVotingPhase        EventKind = "voting_phase_started"
	EventVoteRecorded       EventKind = "vote_recorded"
	EventRoundResolved      EventKind = "round_resolved"
	EventResourceMaxed      EventKind = "resource_maxed"
	EventGameEnded          EventKind = "game_ended"
)

// Event is a session event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user ids; empty means broadcast to the session
}

type SessionStatePayload struct {
	Session *domain.Session `json:"session"`
	Ready   []string        `json:"ready"`
}

type MemberJoinedPayload struct {
	UserID      string      `json:"user_id"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
	IsBot       bool        `json:"is_bot"`
}

type MemberLeftPayload struct {
	UserID string `json:"user_id"`
}

type ReadyChangedPayload struct {
	UserID     string            `json:"user_id"`
	Ready      bool              `json:"ready"`
	ReadyCount int               `json:"ready_count"`
	Lobby      domain.LobbyState `json:"lobby"`
}

type CountdownStartedPayload struct {
	Seconds int `json:"seconds"`
}

type CountdownCancelledPayload struct {
	By string `json:"by,omitempty"` // empty when cancelled by roster shrink
}

type GameStartedPayload struct {
	Resources   domain.Resources `json:"resources"`
	RoundTarget int              `json:"round_target"`
}

type RoundStartedPayload struct {
	Number        int             `json:"number"`
	Scenario      domain.Scenario `json:"scenario"`
	PhaseDeadline time.Time       `json:"phase_deadline"`
}

type PhaseStartedPayload struct {
	Round         int       `json:"round"`
	PhaseDeadline time.Time `json:"phase_deadline"`
}

type VotingPhaseStartedPayload struct {
	Round         int                `json:"round"`
	PhaseDeadline time.Time          `json:"phase_deadline"`
	Proposals     []*domain.Proposal `json:"proposals"`
}

type NewProposalPayload struct {
	Proposal *domain.Proposal `json:"proposal"`
}

type VoteRecordedPayload struct {
	ProposalID string       `json:"proposal_id"`
	VoterID    string       `json:"voter_id"`
	Tally      domain.Tally `json:"tally"`
}

type RoundResolvedPayload struct {
	Number          int              `json:"number"`
	WinningProposal *domain.Proposal `json:"winning_proposal"` // nil on gridlock
	Gridlock        bool             `json:"gridlock"`
	NewResources    domain.Resources `json:"new_resources"`
	Narrative       string           `json:"narrative"`
}

type ResourceMaxedPayload struct {
	Resource string `json:"resource"`
}

type GameEndedPayload struct {
	Outcome        domain.Outcome   `json:"outcome"`
	FinalResources domain.Resources `json:"final_resources"`
	Narrative      string           `json:"narrative"`
	BalanceChanges map[string]int64 `json:"balance_changes"`
}
