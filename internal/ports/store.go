package ports

import (
	"context"

	"council/internal/domain"
)

// SessionStore is the durable record of session and round state. Records
// are keyed by session id and round number; the core never assumes joins.
type SessionStore interface {
	// SaveSession writes the current session record.
	SaveSession(ctx context.Context, s *domain.Session) error

	// GetSession reads a session record by id.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// SaveRound writes one round record, including its proposals and votes.
	SaveRound(ctx context.Context, sessionID string, r *domain.Round) error

	// ListRounds reads the round records 1..maxRound for a session.
	ListRounds(ctx context.Context, sessionID string, maxRound int) ([]*domain.Round, error)
}

// TicketStore is the durable record of matchmaking tickets, keyed by
// player id.
type TicketStore interface {
	// Put writes (creates or replaces) a player's ticket record.
	Put(ctx context.Context, t *domain.Ticket) error

	// Get reads a player's most recent ticket, or nil when none exists.
	Get(ctx context.Context, playerID string) (*domain.Ticket, error)

	// ListWaiting reads all waiting tickets for a mode.
	ListWaiting(ctx context.Context, mode string) ([]*domain.Ticket, error)
}
