package matchmaking

import (
	"context"
	"errors"
	"sort"
	"time"

	"council/internal/config"
	"council/internal/domain"
	"council/internal/ports"

	"github.com/google/uuid"
)

var (
	// ErrNoTicket means the player has no waiting ticket to act on.
	ErrNoTicket = errors.New("no waiting ticket for player")
)

// Result reports one batching pass that formed a session. Skipped players
// keep their waiting tickets and are retried on the next pass.
type Result struct {
	SessionID string
	Matched   []string
	Skipped   map[string]error
}

// Service is the matchmaking queue: it owns ticket mutation and only ever
// creates sessions, handing them to the session service immediately.
type Service struct {
	tickets  ports.TicketStore
	creator  ports.SessionCreator
	notifier ports.NotifierPort

	now func() time.Time
}

// NewService constructs the queue over its collaborator ports.
func NewService(tickets ports.TicketStore, creator ports.SessionCreator, notifier ports.NotifierPort) *Service {
	return &Service{tickets: tickets, creator: creator, notifier: notifier, now: time.Now}
}

// Enqueue files a matchmaking request. While a waiting ticket exists for
// the player its parameters are updated in place; otherwise a fresh ticket
// record is created — terminated tickets are never resurrected.
func (s *Service) Enqueue(ctx context.Context, playerID string, mode config.ModeConfig, priority bool) (*domain.Ticket, error) {
	existing, err := s.tickets.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Waiting() {
		existing.Mode = mode.ID
		existing.MinSize = mode.MinPlayers
		existing.MaxSize = mode.MaxPlayers
		existing.Priority = priority
		if err := s.tickets.Put(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	ticket := &domain.Ticket{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		Mode:       mode.ID,
		MinSize:    mode.MinPlayers,
		MaxSize:    mode.MaxPlayers,
		Priority:   priority,
		EnqueuedAt: s.now(),
		Status:     domain.TicketWaiting,
	}
	if err := s.tickets.Put(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Cancel flips a waiting ticket to cancelled. It never aborts an in-flight
// batch that already selected the ticket.
func (s *Service) Cancel(ctx context.Context, playerID string) error {
	ticket, err := s.tickets.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if ticket == nil || !ticket.Waiting() {
		return ErrNoTicket
	}
	ticket.Status = domain.TicketCancelled
	return s.tickets.Put(ctx, ticket)
}

// ProcessMode runs one batching pass for a mode: if enough tickets are
// waiting it creates one session for up to the mode's maximum party size
// and marks the added tickets matched. Returns nil when no batch formed.
func (s *Service) ProcessMode(ctx context.Context, mode config.ModeConfig) (*Result, error) {
	waiting, err := s.tickets.ListWaiting(ctx, mode.ID)
	if err != nil {
		return nil, err
	}
	if len(waiting) < mode.MinPlayers {
		return nil, nil
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].Priority != waiting[j].Priority {
			return waiting[i].Priority
		}
		return waiting[i].EnqueuedAt.Before(waiting[j].EnqueuedAt)
	})

	batch := waiting
	if len(batch) > mode.MaxPlayers {
		batch = batch[:mode.MaxPlayers]
	}
	playerIDs := make([]string, len(batch))
	for i, t := range batch {
		playerIDs[i] = t.PlayerID
	}

	sessionID, err := s.creator.CreateSession(ctx, mode.ID, playerIDs)
	if err != nil {
		return nil, err
	}

	result := &Result{SessionID: sessionID, Skipped: make(map[string]error)}
	for _, t := range batch {
		if err := s.notifier.Send(ctx, t.PlayerID, "Matched into a session", map[string]interface{}{
			"session_id": sessionID,
			"mode":       mode.ID,
		}, ports.NotifyCodeMatched); err != nil {
			// The player could not be added; leave their ticket waiting.
			result.Skipped[t.PlayerID] = err
			continue
		}
		t.Status = domain.TicketMatched
		t.SessionID = sessionID
		if err := s.tickets.Put(ctx, t); err != nil {
			result.Skipped[t.PlayerID] = err
			continue
		}
		result.Matched = append(result.Matched, t.PlayerID)
	}
	return result, nil
}

// SweepTimeouts marks tickets waiting longer than ttl as timed out and
// returns how many were swept.
func (s *Service) SweepTimeouts(ctx context.Context, mode string, ttl time.Duration) (int, error) {
	waiting, err := s.tickets.ListWaiting(ctx, mode)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-ttl)
	swept := 0
	for _, t := range waiting {
		if t.EnqueuedAt.After(cutoff) {
			continue
		}
		t.Status = domain.TicketTimedOut
		if err := s.tickets.Put(ctx, t); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}
