// -----------------------------------------------------------------------
// Notifier - Outbound notification delivery
// -----------------------------------------------------------------------

package notify

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/interfaces"
)

// LogNotifier implements interfaces.Notifier by writing structured log
// entries. Push delivery (APNs, FCM, email) belongs to the surrounding
// platform; the core only emits the event.
type LogNotifier struct {
	logger arbor.ILogger
}

var _ interfaces.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger arbor.ILogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify records the notification. Never fails.
func (n *LogNotifier) Notify(ctx context.Context, userIDs []string, title, body string, data map[string]string) error {
	event := n.logger.Info().
		Str("recipients", strings.Join(userIDs, ",")).
		Str("title", title).
		Str("body", body)
	for key, value := range data {
		event = event.Str("data_"+key, value)
	}
	event.Msg("Notification dispatched")
	return nil
}
