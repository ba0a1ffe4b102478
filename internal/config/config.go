package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"council/internal/domain"
)

// ModeConfig describes one matchmaking mode and the sessions it forms.
type ModeConfig struct {
	ID         string `json:"id"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
	Rounds     int    `json:"rounds"`
}

// GameConfig holds tunable pacing and balance values. Zero fields fall back
// to defaults when loaded.
type GameConfig struct {
	StartingLevel     int `json:"starting_level"`
	DefaultRounds     int `json:"default_rounds"`
	BaseScorePerRound int `json:"base_score_per_round"`

	EventRevealSec int `json:"event_reveal_seconds"`
	ProposalSec    int `json:"proposal_seconds"`
	VotingSec      int `json:"voting_seconds"`
	ResultsSec     int `json:"results_seconds"`
	CountdownSec   int `json:"countdown_seconds"`

	LobbyGraceSec   int `json:"lobby_grace_seconds"`
	GameGraceSec    int `json:"game_grace_seconds"`
	AbandonGraceSec int `json:"abandon_grace_seconds"`

	GridlockStability int `json:"gridlock_stability"`
	GridlockWelfare   int `json:"gridlock_welfare"`

	BotsEnabled    bool `json:"bots_enabled"`
	BotMinDelaySec int  `json:"bot_min_delay_seconds"`
	BotMaxDelaySec int  `json:"bot_max_delay_seconds"`

	Modes                  []ModeConfig `json:"modes"`
	MatchmakingIntervalSec int          `json:"matchmaking_interval_seconds"`
	TicketTTLSec           int          `json:"ticket_ttl_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns a fully-populated configuration with built-in values.
func Default() *GameConfig {
	return &GameConfig{
		StartingLevel:     50,
		DefaultRounds:     10,
		BaseScorePerRound: 100,

		EventRevealSec: 10,
		ProposalSec:    60,
		VotingSec:      45,
		ResultsSec:     15,
		CountdownSec:   5,

		LobbyGraceSec:   30,
		GameGraceSec:    60,
		AbandonGraceSec: 300,

		GridlockStability: domain.DefaultGridlockPenalty.Stability,
		GridlockWelfare:   domain.DefaultGridlockPenalty.Welfare,

		BotsEnabled:    true,
		BotMinDelaySec: 2,
		BotMaxDelaySec: 8,

		Modes: []ModeConfig{
			{ID: "standard", MinPlayers: domain.MinPlayers, MaxPlayers: 6, Rounds: 10},
		},
		MatchmakingIntervalSec: 5,
		TicketTTLSec:           120,
	}
}

// LoadGameConfig reads the configuration file once. Missing fields keep
// their defaults; a missing file is an error the caller may treat as a
// warning and fall back to Default().
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		c.fillZeroes()
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or defaults when no file
// was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

func (c *GameConfig) fillZeroes() {
	d := Default()
	if c.StartingLevel == 0 {
		c.StartingLevel = d.StartingLevel
	}
	if c.DefaultRounds == 0 {
		c.DefaultRounds = d.DefaultRounds
	}
	if c.BaseScorePerRound == 0 {
		c.BaseScorePerRound = d.BaseScorePerRound
	}
	if c.EventRevealSec == 0 {
		c.EventRevealSec = d.EventRevealSec
	}
	if c.ProposalSec == 0 {
		c.ProposalSec = d.ProposalSec
	}
	if c.VotingSec == 0 {
		c.VotingSec = d.VotingSec
	}
	if c.ResultsSec == 0 {
		c.ResultsSec = d.ResultsSec
	}
	if c.CountdownSec == 0 {
		c.CountdownSec = d.CountdownSec
	}
	if c.LobbyGraceSec == 0 {
		c.LobbyGraceSec = d.LobbyGraceSec
	}
	if c.GameGraceSec == 0 {
		c.GameGraceSec = d.GameGraceSec
	}
	if c.AbandonGraceSec == 0 {
		c.AbandonGraceSec = d.AbandonGraceSec
	}
	if c.MatchmakingIntervalSec == 0 {
		c.MatchmakingIntervalSec = d.MatchmakingIntervalSec
	}
	if c.TicketTTLSec == 0 {
		c.TicketTTLSec = d.TicketTTLSec
	}
	if len(c.Modes) == 0 {
		c.Modes = d.Modes
	}
}

// ApplyEnv overrides selected settings from the Nakama runtime environment.
func (c *GameConfig) ApplyEnv(env map[string]string) {
	if v, ok := env["council_bots_enabled"]; ok {
		c.BotsEnabled = v == "true"
	}
	if v, ok := env["council_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			c.BotMinDelaySec = i
		}
	}
	if v, ok := env["council_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			c.BotMaxDelaySec = i
		}
	}
	if v, ok := env["council_countdown_sec"]; ok {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			c.CountdownSec = i
		}
	}
	if v, ok := env["council_matchmaking_interval_sec"]; ok {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			c.MatchmakingIntervalSec = i
		}
	}
}

// PhaseDurationSec returns the timeout for a round phase. Resolving is
// instantaneous; the gateway advances through it in the same tick.
func (c *GameConfig) PhaseDurationSec(p domain.RoundPhase) int {
	switch p {
	case domain.PhaseEventReveal:
		return c.EventRevealSec
	case domain.PhaseProposalOpen:
		return c.ProposalSec
	case domain.PhaseVotingOpen:
		return c.VotingSec
	case domain.PhaseResults:
		return c.ResultsSec
	default:
		return 0
	}
}

// Mode returns the configuration for a matchmaking mode, falling back to
// the first configured mode for unknown ids.
func (c *GameConfig) Mode(id string) ModeConfig {
	for _, m := range c.Modes {
		if m.ID == id {
			return m
		}
	}
	return c.Modes[0]
}

// GridlockPenalty returns the configured penalty applied when no proposal
// wins a round.
func (c *GameConfig) GridlockPenalty() domain.ResourceDelta {
	return domain.ResourceDelta{Stability: c.GridlockStability, Welfare: c.GridlockWelfare}
}

// StartingResources returns the opening levels for a new game.
func (c *GameConfig) StartingResources() domain.Resources {
	return domain.Resources{
		Treasury:       c.StartingLevel,
		Welfare:        c.StartingLevel,
		Stability:      c.StartingLevel,
		Infrastructure: c.StartingLevel,
	}
}
