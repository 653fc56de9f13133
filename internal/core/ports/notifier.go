package ports

import "context"

// NotificationKind names the lifecycle moments customers and operators are
// told about.
type NotificationKind string

const (
	NotificationRequestAccepted  NotificationKind = "request_accepted"
	NotificationRobotEnRoute     NotificationKind = "robot_en_route"
	NotificationArrivedAtRoom    NotificationKind = "arrived_at_room"
	NotificationPaymentDue       NotificationKind = "payment_due"
	NotificationRequestCompleted NotificationKind = "request_completed"
	NotificationRequestDeclined  NotificationKind = "request_declined"
	NotificationStageTimedOut    NotificationKind = "stage_timed_out"
)

// Notification is one message pushed to a customer or operator.
type Notification struct {
	Kind       NotificationKind
	CustomerID string
	RequestID  int64
	Title      string
	Body       string
}

// Notifier pushes notifications out of the system. Failures are logged and
// swallowed by callers; a lost notification must never fail a lifecycle
// transition.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
