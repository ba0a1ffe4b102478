package ports

import "context"

// AccountPort updates account profiles.
type AccountPort interface {
	// UpdateProfile applies username/displayName to the given account.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}

// WelcomeBonusPort grants the one-time welcome credit grant.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce attempts the grant; granted=false means it was
	// already given.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
