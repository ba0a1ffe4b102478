package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort manages the virtual currency. Reward credits at game end are
// fire-and-forget from the core's perspective: failures are logged and
// never roll back game state.
type EconomyPort interface {
	// GetBalance retrieves the current credit balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes, one per user.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
