package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"council/internal/domain"
	"council/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	ticketCollection = "matchmaking_tickets"
	ticketListPage   = 100
)

// NakamaTicketStoreAdapter implements ports.TicketStore on Nakama storage.
// One record per player holds their latest ticket; history is not kept.
type NakamaTicketStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaTicketStoreAdapter creates a new ticket store adapter.
func NewNakamaTicketStoreAdapter(nk runtime.NakamaModule) *NakamaTicketStoreAdapter {
	return &NakamaTicketStoreAdapter{nk: nk}
}

// Put writes a player's ticket record, replacing any previous one.
func (a *NakamaTicketStoreAdapter) Put(ctx context.Context, t *domain.Ticket) error {
	value, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket for %s: %w", t.PlayerID, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      ticketCollection,
		Key:             t.PlayerID,
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write ticket for %s: %w", t.PlayerID, err)
	}
	return nil
}

// Get reads a player's latest ticket, or nil when none exists.
func (a *NakamaTicketStoreAdapter) Get(ctx context.Context, playerID string) (*domain.Ticket, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: ticketCollection,
		Key:        playerID,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket for %s: %w", playerID, err)
	}
	if len(objects) == 0 {
		return nil, nil
	}
	var t domain.Ticket
	if err := json.Unmarshal([]byte(objects[0].Value), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket for %s: %w", playerID, err)
	}
	return &t, nil
}

// ListWaiting scans the ticket collection and returns the waiting tickets
// for a mode. The collection only ever holds one record per player, so the
// scan stays small.
func (a *NakamaTicketStoreAdapter) ListWaiting(ctx context.Context, mode string) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	cursor := ""
	for {
		objects, nextCursor, err := a.nk.StorageList(ctx, "", "", ticketCollection, ticketListPage, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list tickets: %w", err)
		}
		for _, obj := range objects {
			var t domain.Ticket
			if err := json.Unmarshal([]byte(obj.Value), &t); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ticket record %s: %w", obj.Key, err)
			}
			if t.Waiting() && t.Mode == mode {
				out = append(out, &t)
			}
		}
		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}
	return out, nil
}

var _ ports.TicketStore = (*NakamaTicketStoreAdapter)(nil)
