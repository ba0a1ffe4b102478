package nakama

import (
	"context"
	"fmt"

	"council/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Match creation parameter keys read back in MatchInit.
const (
	matchParamMode     = "mode"
	matchParamReserved = "reserved"
)

// NakamaSessionCreatorAdapter implements ports.SessionCreator by spinning
// up authoritative matches. Reserved seats are passed through match params
// so joins from the matched players are accepted even at capacity.
type NakamaSessionCreatorAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaSessionCreatorAdapter creates a new session creator adapter.
func NewNakamaSessionCreatorAdapter(nk runtime.NakamaModule) *NakamaSessionCreatorAdapter {
	return &NakamaSessionCreatorAdapter{nk: nk}
}

// CreateSession creates a new authoritative match for the mode with seats
// reserved for the given players, returning the match id.
func (a *NakamaSessionCreatorAdapter) CreateSession(ctx context.Context, mode string, playerIDs []string) (string, error) {
	reserved := make([]interface{}, len(playerIDs))
	for i, id := range playerIDs {
		reserved[i] = id
	}
	matchID, err := a.nk.MatchCreate(ctx, MatchNameCouncil, map[string]interface{}{
		matchParamMode:     mode,
		matchParamReserved: reserved,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create match for mode %s: %w", mode, err)
	}
	return matchID, nil
}

var _ ports.SessionCreator = (*NakamaSessionCreatorAdapter)(nil)
