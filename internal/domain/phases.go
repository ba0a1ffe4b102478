package domain

// MinPlayers is the roster size required before a lobby can become ready.
const MinPlayers = 4

// ActionKind identifies an inbound member action for allow-list checks.
type ActionKind string

const (
	ActionToggleReady     ActionKind = "toggle_ready"
	ActionStartCountdown  ActionKind = "start_countdown"
	ActionCancelCountdown ActionKind = "cancel_countdown"
	ActionSubmitProposal  ActionKind = "submit_proposal"
	ActionCastVote        ActionKind = "cast_vote"
	ActionChat            ActionKind = "chat"
)

// phaseOrder is the fixed linear progression of a round.
var phaseOrder = []RoundPhase{
	PhaseEventReveal,
	PhaseProposalOpen,
	PhaseVotingOpen,
	PhaseResolving,
	PhaseResults,
	PhaseRoundClosed,
}

// NextPhase returns the phase following the given one. ok is false at the
// terminal phase or for an unknown phase.
func NextPhase(p RoundPhase) (next RoundPhase, ok bool) {
	for i, cur := range phaseOrder {
		if cur == p {
			if i+1 < len(phaseOrder) {
				return phaseOrder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// lobbyActions is the explicit allow-list of member actions per lobby state.
// Countdown deliberately allows nothing but cancel (and chat).
var lobbyActions = map[LobbyState]map[ActionKind]bool{
	LobbyWaiting: {
		ActionToggleReady: true,
		ActionChat:        true,
	},
	LobbyReady: {
		ActionToggleReady:    true,
		ActionStartCountdown: true,
		ActionChat:           true,
	},
	LobbyCountdown: {
		ActionCancelCountdown: true,
		ActionChat:            true,
	},
	LobbyBotFill: {
		ActionChat: true,
	},
	LobbyInProgress: {
		ActionSubmitProposal: true, // further narrowed by PhaseAllows
		ActionCastVote:       true,
		ActionChat:           true,
	},
}

// phaseActions narrows in-round actions to the phase that accepts them.
var phaseActions = map[RoundPhase]map[ActionKind]bool{
	PhaseEventReveal:  {ActionChat: true},
	PhaseProposalOpen: {ActionSubmitProposal: true, ActionChat: true},
	PhaseVotingOpen:   {ActionCastVote: true, ActionChat: true},
	PhaseResolving:    {ActionChat: true},
	PhaseResults:      {ActionChat: true},
	PhaseRoundClosed:  {ActionChat: true},
}

// LobbyAllows reports whether the lobby state accepts the action.
func LobbyAllows(s LobbyState, a ActionKind) bool {
	return lobbyActions[s][a]
}

// PhaseAllows reports whether the round phase accepts the action.
func PhaseAllows(p RoundPhase, a ActionKind) bool {
	return phaseActions[p][a]
}

// CanBecomeReady reports whether a lobby with the given roster size may flag
// members ready.
func CanBecomeReady(memberCount int) bool {
	return memberCount >= MinPlayers
}

// MustReturnToWaiting reports whether a lobby has shrunk below the minimum
// and must fall back to the waiting state.
func MustReturnToWaiting(memberCount int) bool {
	return memberCount < MinPlayers
}
