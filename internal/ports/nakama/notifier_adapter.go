package nakama

import (
	"context"
	"fmt"

	"council/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaNotifierAdapter implements ports.NotifierPort on Nakama's
// notification API. Notifications are persistent so offline players see
// them on reconnect.
type NakamaNotifierAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaNotifierAdapter creates a new notifier adapter.
func NewNakamaNotifierAdapter(nk runtime.NakamaModule) *NakamaNotifierAdapter {
	return &NakamaNotifierAdapter{nk: nk}
}

// Send delivers one notification to a user.
func (a *NakamaNotifierAdapter) Send(ctx context.Context, userID, subject string, content map[string]interface{}, code int) error {
	if err := a.nk.NotificationSend(ctx, userID, subject, content, code, "", true); err != nil {
		return fmt.Errorf("failed to send notification to %s: %w", userID, err)
	}
	return nil
}

var _ ports.NotifierPort = (*NakamaNotifierAdapter)(nil)
