package ports

import "context"

// Notification codes consumed by clients.
const (
	NotifyCodeMatched      = 101 // matchmaking placed the player in a session
	NotifyCodeGameComplete = 102 // a session the player was part of finished
)

// NotifierPort dispatches async alerts to individual players.
type NotifierPort interface {
	// Send delivers one notification. Failures never abort the caller's
	// state mutation.
	Send(ctx context.Context, userID, subject string, content map[string]interface{}, code int) error
}
