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
	sessionCollection = "sessions"
	roundCollection   = "session_rounds"
)

// NakamaSessionStoreAdapter implements ports.SessionStore on Nakama's
// storage engine. Records are system-owned; clients read state through the
// realtime events, never the storage API.
type NakamaSessionStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaSessionStoreAdapter creates a new session store adapter.
func NewNakamaSessionStoreAdapter(nk runtime.NakamaModule) *NakamaSessionStoreAdapter {
	return &NakamaSessionStoreAdapter{nk: nk}
}

// SaveSession writes the session record keyed by its id.
func (a *NakamaSessionStoreAdapter) SaveSession(ctx context.Context, s *domain.Session) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", s.ID, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      sessionCollection,
		Key:             s.ID,
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", s.ID, err)
	}
	return nil
}

// GetSession reads a session record, or nil when none exists.
func (a *NakamaSessionStoreAdapter) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: sessionCollection,
		Key:        id,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	if len(objects) == 0 {
		return nil, nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(objects[0].Value), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

// SaveRound writes one round record keyed by session id and round number.
func (a *NakamaSessionStoreAdapter) SaveRound(ctx context.Context, sessionID string, r *domain.Round) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal round %d of %s: %w", r.Number, sessionID, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      roundCollection,
		Key:             roundKey(sessionID, r.Number),
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write round %d of %s: %w", r.Number, sessionID, err)
	}
	return nil
}

// ListRounds reads rounds 1..maxRound for a session, skipping gaps.
func (a *NakamaSessionStoreAdapter) ListRounds(ctx context.Context, sessionID string, maxRound int) ([]*domain.Round, error) {
	if maxRound <= 0 {
		return nil, nil
	}
	reads := make([]*runtime.StorageRead, 0, maxRound)
	for n := 1; n <= maxRound; n++ {
		reads = append(reads, &runtime.StorageRead{
			Collection: roundCollection,
			Key:        roundKey(sessionID, n),
		})
	}
	objects, err := a.nk.StorageRead(ctx, reads)
	if err != nil {
		return nil, fmt.Errorf("failed to read rounds of %s: %w", sessionID, err)
	}
	rounds := make([]*domain.Round, 0, len(objects))
	for _, obj := range objects {
		var r domain.Round
		if err := json.Unmarshal([]byte(obj.Value), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record %s: %w", obj.Key, err)
		}
		rounds = append(rounds, &r)
	}
	return rounds, nil
}

func roundKey(sessionID string, number int) string {
	return fmt.Sprintf("%s:%d", sessionID, number)
}

var _ ports.SessionStore = (*NakamaSessionStoreAdapter)(nil)
