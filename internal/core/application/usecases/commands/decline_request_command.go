package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrDeclineRequestCommandIsNotConstructed = errors.New(
		"DeclineRequestCommand must be created via NewDeclineRequestCommand constructor",
	)
	ErrDeclineReasonIsRequired = errors.New("decline reason is required")
)

// DeclineRequestCommand rejects a pending request with a reason the
// customer will see.
type DeclineRequestCommand struct { //nolint:recvcheck //using for validation
	requestID int64
	reason    string

	guard guard.ConstructorGuard
}

// NewDeclineRequestCommand creates a validated decline command.
func NewDeclineRequestCommand(requestID int64, reason string) (DeclineRequestCommand, error) {
	if requestID <= 0 {
		return DeclineRequestCommand{}, ErrRequestIDIsRequired
	}
	if reason == "" {
		return DeclineRequestCommand{}, ErrDeclineReasonIsRequired
	}

	return DeclineRequestCommand{
		requestID: requestID,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineRequestCommand) Validate() error {
	return c.guard.Validate(ErrDeclineRequestCommandIsNotConstructed)
}

// RequestID returns the request to decline.
func (c DeclineRequestCommand) RequestID() int64 { return c.requestID }

// Reason returns the decline reason.
func (c DeclineRequestCommand) Reason() string { return c.reason }
