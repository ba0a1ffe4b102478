package ports

import "context"

// StatsPort tracks per-player play counters. Calls are fire-and-forget:
// the caller logs failures and never blocks game state on them.
type StatsPort interface {
	// IncrementPlayCounts bumps the played counter for each user, and the
	// completed counter too when completed is true.
	IncrementPlayCounts(ctx context.Context, userIDs []string, completed bool) error
}
