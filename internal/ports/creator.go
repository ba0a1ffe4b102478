package ports

import "context"

// SessionCreator creates new sessions on behalf of the matchmaking queue.
// Ownership of the created session passes to the session service
// immediately; the queue only records the resulting id.
type SessionCreator interface {
	// CreateSession spins up a session for the mode with seats reserved for
	// the given players, returning the new session id.
	CreateSession(ctx context.Context, mode string, playerIDs []string) (string, error)
}
