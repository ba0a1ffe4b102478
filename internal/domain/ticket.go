package domain

import "time"

// TicketStatus is the lifecycle state of a matchmaking ticket. Tickets are
// never resurrected: a fresh enqueue after a terminal status creates a new
// ticket record for the same player.
type TicketStatus string

const (
	TicketWaiting   TicketStatus = "waiting"
	TicketMatched   TicketStatus = "matched"
	TicketCancelled TicketStatus = "cancelled"
	TicketTimedOut  TicketStatus = "timed_out"
)

// Ticket is one player's pending request to be grouped into a session.
type Ticket struct {
	ID         string       `json:"id"`
	PlayerID   string       `json:"player_id"`
	Mode       string       `json:"mode"`
	MinSize    int          `json:"min_size"`
	MaxSize    int          `json:"max_size"`
	Priority   bool         `json:"priority"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
	Status     TicketStatus `json:"status"`
	SessionID  string       `json:"session_id,omitempty"`
}

// Waiting reports whether the ticket is still eligible for matching.
func (t *Ticket) Waiting() bool {
	return t.Status == TicketWaiting
}
