package app

import (
	"errors"
	"fmt"

	"council/internal/domain"
)

// Rejection taxonomy. Every rejection is local to the requesting member:
// no state is mutated and the session timer keeps running.
var (
	// authorization
	ErrNotOwner  = errors.New("actor is not the session owner")
	ErrNotMember = errors.New("actor is not a session member")

	// validation
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrNotAllReady   = errors.New("not all members are ready")
	ErrUnknownOption = errors.New("unknown scenario option")
	ErrInvalidChoice = errors.New("invalid vote choice")
	ErrSessionFull   = errors.New("session is full")

	// phase violation
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrWrongLobbyState = errors.New("action not allowed in current lobby state")

	// not found
	ErrUnknownProposal = errors.New("proposal not found")
	ErrNoActiveRound   = errors.New("no round in progress")

	// conflict
	ErrSelfVote = errors.New("members cannot vote on their own proposal")

	// signals
	ErrSessionOver = errors.New("game already over")
)

func wrongPhase(action string, p domain.RoundPhase) error {
	return fmt.Errorf("%w: %s during %s", ErrWrongPhase, action, p)
}

func wrongLobby(action string, s domain.LobbyState) error {
	return fmt.Errorf("%w: %s while %s", ErrWrongLobbyState, action, s)
}

// ErrorCode maps a service rejection to the numeric code sent back to the
// requesting connection only.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrNotMember):
		return 403
	case errors.Is(err, ErrUnknownProposal), errors.Is(err, ErrNoActiveRound):
		return 404
	case errors.Is(err, ErrSelfVote), errors.Is(err, ErrWrongPhase), errors.Is(err, ErrWrongLobbyState), errors.Is(err, ErrSessionOver):
		return 409
	default:
		return 400
	}
}
