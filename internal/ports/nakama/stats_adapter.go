package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"council/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "player_stats"
	statsKey        = "play_counts"
)

type playCounts struct {
	Played    int `json:"played"`
	Completed int `json:"completed"`
}

// NakamaStatsAdapter implements ports.StatsPort with per-user storage
// records. Counter updates are read-modify-write; the caller treats the
// whole port as fire-and-forget, so a lost increment under contention is
// acceptable.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk}
}

// IncrementPlayCounts bumps the played counter for each user, and the
// completed counter too when completed is true.
func (a *NakamaStatsAdapter) IncrementPlayCounts(ctx context.Context, userIDs []string, completed bool) error {
	for _, userID := range userIDs {
		if err := a.increment(ctx, userID, completed); err != nil {
			return err
		}
	}
	return nil
}

func (a *NakamaStatsAdapter) increment(ctx context.Context, userID string, completed bool) error {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: statsCollection,
		Key:        statsKey,
		UserID:     userID,
	}})
	if err != nil {
		return fmt.Errorf("failed to read stats for %s: %w", userID, err)
	}

	counts := playCounts{}
	version := ""
	if len(objects) > 0 {
		if err := json.Unmarshal([]byte(objects[0].Value), &counts); err != nil {
			return fmt.Errorf("failed to unmarshal stats for %s: %w", userID, err)
		}
		version = objects[0].Version
	}

	counts.Played++
	if completed {
		counts.Completed++
	}

	value, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for %s: %w", userID, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      statsCollection,
		Key:             statsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write stats for %s: %w", userID, err)
	}
	return nil
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
