package nakama

import (
	"context"
	"time"

	"council/internal/app/matchmaking"
	"council/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// StartMatchmaker launches the background batching loop: every interval it
// sweeps expired tickets and runs one batching pass per configured mode.
// The loop stops when the runtime context is cancelled.
func StartMatchmaker(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, cfg *config.GameConfig) {
	svc := matchmaking.NewService(NewNakamaTicketStoreAdapter(nk), NewNakamaSessionCreatorAdapter(nk), NewNakamaNotifierAdapter(nk))
	interval := time.Duration(cfg.MatchmakingIntervalSec) * time.Second
	ttl := time.Duration(cfg.TicketTTLSec) * time.Second

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Matchmaker: Stopping.")
				return
			case <-ticker.C:
				runPass(ctx, logger, svc, cfg, ttl)
			}
		}
	}()
}

func runPass(ctx context.Context, logger runtime.Logger, svc *matchmaking.Service, cfg *config.GameConfig, ttl time.Duration) {
	for _, mode := range cfg.Modes {
		swept, err := svc.SweepTimeouts(ctx, mode.ID, ttl)
		if err != nil {
			logger.Error("Matchmaker: Timeout sweep failed for mode %s: %v", mode.ID, err)
		} else if swept > 0 {
			logger.Info("Matchmaker: Timed out %d tickets in mode %s", swept, mode.ID)
		}

		result, err := svc.ProcessMode(ctx, mode)
		if err != nil {
			logger.Error("Matchmaker: Batching pass failed for mode %s: %v", mode.ID, err)
			continue
		}
		if result == nil {
			continue
		}
		logger.Info("Matchmaker: Formed session %s with %d players in mode %s", result.SessionID, len(result.Matched), mode.ID)
		for playerID, err := range result.Skipped {
			logger.Warn("Matchmaker: Skipped %s for session %s: %v", playerID, result.SessionID, err)
		}
	}
}
