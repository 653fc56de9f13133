// Package notify delivers lifecycle notifications to customers as web push
// messages. Delivery is best effort: callers swallow errors, and a gone
// subscription is pruned rather than retried.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"laundrybot/internal/core/ports"

	"github.com/SherClockHolmes/webpush-go"
)

// Sender sends one web push message. It exists so tests can swap out the
// network call.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through the webpush library.
type WebPushSender struct{}

// Send implements Sender.
func (WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WebPushNotifier implements ports.Notifier over per-customer web push
// subscriptions.
type WebPushNotifier struct {
	store   *SubscriptionStore
	sender  Sender
	options *webpush.Options
	logger  *slog.Logger
}

// NewWebPushNotifier creates a notifier with VAPID options shared across
// all sends.
func NewWebPushNotifier(store *SubscriptionStore, sender Sender, options *webpush.Options, logger *slog.Logger) *WebPushNotifier {
	return &WebPushNotifier{
		store:   store,
		sender:  sender,
		options: options,
		logger:  logger.With("component", "webpush_notifier"),
	}
}

// pushPayload is what the service worker on the customer's device receives.
type pushPayload struct {
	Kind      string `json:"kind"`
	RequestID int64  `json:"request_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// Notify fans the notification out to every subscription the customer has.
// Per-subscription failures are logged and do not stop the fan-out; a 410
// response prunes the subscription.
func (n *WebPushNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	subs, err := n.store.GetByCustomer(ctx, notification.CustomerID)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{
		Kind:      string(notification.Kind),
		RequestID: notification.RequestID,
		Title:     notification.Title,
		Body:      notification.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	for _, sub := range subs {
		n.send(ctx, sub, payload)
	}
	return nil
}

func (n *WebPushNotifier) send(ctx context.Context, sub SubscriptionDTO, payload []byte) {
	resp, err := n.sender.Send(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, n.options)
	if err != nil {
		n.logger.Error("push send failed", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		n.logger.Info("subscription gone, pruning", "endpoint", sub.Endpoint)
		if err := n.store.Delete(ctx, sub.Endpoint); err != nil {
			n.logger.Error("subscription prune failed", "endpoint", sub.Endpoint, "error", err)
		}
	}
}
