package commands

import (
	"context"
	"log/slog"
	"strconv"

	"laundrybot/internal/core/ports"
)

// requestKey is the keyed-locker key serializing all mutations of one
// request. Admin actions, beacon reports, and supervisor decisions for the
// same request never run concurrently.
func requestKey(requestID int64) string {
	return "request:" + strconv.FormatInt(requestID, 10)
}

// notify pushes a notification and swallows the error. A lost push must
// never fail a committed lifecycle transition.
func notify(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, n ports.Notification) {
	if err := notifier.Notify(ctx, n); err != nil {
		logger.Warn("notification failed",
			"kind", string(n.Kind), "request_id", n.RequestID, "error", err)
	}
}
