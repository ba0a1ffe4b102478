package nakama

import (
	"context"
	"database/sql"

	"council/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks, the match handler and the matchmaking loop
// into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg.ApplyEnv(env)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameCouncil, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	StartMatchmaker(ctx, logger, nk, cfg)

	logger.Info("Council Go module loaded.")
	return nil
}
