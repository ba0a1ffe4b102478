package domain

import "time"

// LobbyState represents the lifecycle stage of a session outside of rounds.
type LobbyState string

const (
	// LobbyWaiting is the initial state where members gather and toggle ready.
	LobbyWaiting LobbyState = "waiting"
	// LobbyReady means enough members are present and all of them are ready.
	LobbyReady LobbyState = "ready"
	// LobbyCountdown is the short window before the game starts; only cancel is allowed.
	LobbyCountdown LobbyState = "countdown"
	// LobbyBotFill is the transient state where open slots are filled with bots.
	LobbyBotFill LobbyState = "bot_fill"
	// LobbyInProgress means the game is running and rounds are being played.
	LobbyInProgress LobbyState = "in_progress"
	// LobbyCompleted is the terminal state of a finished game.
	LobbyCompleted LobbyState = "completed"
	// LobbyAbandoned is the terminal state of a session everyone walked away from.
	LobbyAbandoned LobbyState = "abandoned"
)

// RoundPhase represents the stage of the active round.
type RoundPhase string

const (
	PhaseEventReveal  RoundPhase = "event_reveal"
	PhaseProposalOpen RoundPhase = "proposal_open"
	PhaseVotingOpen   RoundPhase = "voting_open"
	PhaseResolving    RoundPhase = "resolving"
	PhaseResults      RoundPhase = "results"
	PhaseRoundClosed  RoundPhase = "round_closed"
)

// Role distinguishes the session owner from regular participants.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

// Member is one participant of a session.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	IsBot       bool   `json:"is_bot"`
}

// VoteChoice is a member's stance on a proposal.
type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

// Vote is one member's recorded choice on one proposal.
// Re-voting overwrites the previous record for the same voter.
type Vote struct {
	ProposalID string     `json:"proposal_id"`
	VoterID    string     `json:"voter_id"`
	Choice     VoteChoice `json:"choice"`
	CastAt     time.Time  `json:"cast_at"`
}

// Tally is the aggregated vote count of a proposal, recomputed on every cast.
type Tally struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Abstain int `json:"abstain"`
}

// Proposal is a member's suggested response to the round's scenario.
// Each member holds at most one proposal per round; resubmission replaces it.
type Proposal struct {
	ID          string          `json:"id"`
	MemberID    string          `json:"member_id"`
	OptionID    string          `json:"option_id"`
	Rationale   string          `json:"rationale"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Tally       Tally           `json:"tally"`
	Votes       map[string]Vote `json:"votes"` // voter id -> vote
}

// Round is one scenario -> proposal -> vote -> resolution cycle.
type Round struct {
	Number            int                  `json:"number"`
	ScenarioID        string               `json:"scenario_id"`
	StartResources    Resources            `json:"start_resources"`
	Proposals         map[string]*Proposal `json:"proposals"` // member id -> proposal
	WinningProposalID string               `json:"winning_proposal_id,omitempty"`
	Gridlock          bool                 `json:"gridlock"`
	EndResources      Resources            `json:"end_resources"`
	Resolved          bool                 `json:"resolved"`
}

// Outcome is the terminal classification of a finished session.
type Outcome struct {
	Tier       OutcomeTier `json:"tier"`
	Multiplier float64     `json:"multiplier"`
	FinalScore int         `json:"final_score"`
	EarlyEnd   bool        `json:"early_end"`
}

// Session is one playthrough: a fixed group jointly steering the four
// resources across a bounded number of rounds.
//
// A session is either in a lobby state (CurrentRound == nil) or has exactly
// one active round; never both.
type Session struct {
	ID            string     `json:"id"`
	Lobby         LobbyState `json:"lobby"`
	Members       []*Member  `json:"members"`
	MaxMembers    int        `json:"max_members"`
	RoundTarget   int        `json:"round_target"`
	RoundNumber   int        `json:"round_number"`
	Phase         RoundPhase `json:"phase,omitempty"`
	PhaseDeadline time.Time  `json:"phase_deadline,omitempty"`
	Resources     Resources  `json:"resources"`
	CurrentRound  *Round     `json:"current_round,omitempty"`
	Outcome       *Outcome   `json:"outcome,omitempty"`
}

// Member returns the roster entry for the given user, or nil.
func (s *Session) Member(userID string) *Member {
	for _, m := range s.Members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// Owner returns the current owner, or nil if the roster is empty.
func (s *Session) Owner() *Member {
	for _, m := range s.Members {
		if m.Role == RoleOwner {
			return m
		}
	}
	return nil
}

// IsOwner reports whether the given user currently owns the session.
func (s *Session) IsOwner(userID string) bool {
	o := s.Owner()
	return o != nil && o.UserID == userID
}

// HumanCount returns the number of non-bot members on the roster.
func (s *Session) HumanCount() int {
	n := 0
	for _, m := range s.Members {
		if !m.IsBot {
			n++
		}
	}
	return n
}

// InLobby reports whether the session is in a pre-game lobby state.
func (s *Session) InLobby() bool {
	switch s.Lobby {
	case LobbyWaiting, LobbyReady, LobbyCountdown, LobbyBotFill:
		return true
	}
	return false
}

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool {
	return s.Lobby == LobbyCompleted || s.Lobby == LobbyAbandoned
}

// ProposalByID finds a proposal in the current round by its id.
func (r *Round) ProposalByID(id string) *Proposal {
	for _, p := range r.Proposals {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RecomputeTally rebuilds the proposal tally from its vote records.
func (p *Proposal) RecomputeTally() {
	t := Tally{}
	for _, v := range p.Votes {
		switch v.Choice {
		case VoteYes:
			t.Yes++
		case VoteNo:
			t.No++
		case VoteAbstain:
			t.Abstain++
		}
	}
	p.Tally = t
}
