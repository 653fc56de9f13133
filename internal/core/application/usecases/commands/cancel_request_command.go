package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrCancelRequestCommandIsNotConstructed = errors.New(
		"CancelRequestCommand must be created via NewCancelRequestCommand constructor",
	)
	ErrCancelReasonIsRequired = errors.New("cancel reason is required")
	ErrCancelActorIsRequired  = errors.New("cancel actor is required")
	ErrRefundAmountIsInvalid  = errors.New("refund amount must not be negative")
)

// CancelRequestCommand aborts a request. A refund amount is mandatory when
// the request already reached invoicing; before that point the fields stay
// zero.
type CancelRequestCommand struct { //nolint:recvcheck //using for validation
	requestID    int64
	reason       string
	actor        string
	refundCents  int64
	refundReason string

	guard guard.ConstructorGuard
}

// NewCancelRequestCommand creates a validated cancellation command.
func NewCancelRequestCommand(requestID int64, reason, actor string, refundCents int64, refundReason string) (CancelRequestCommand, error) {
	if requestID <= 0 {
		return CancelRequestCommand{}, ErrRequestIDIsRequired
	}
	if reason == "" {
		return CancelRequestCommand{}, ErrCancelReasonIsRequired
	}
	if actor == "" {
		return CancelRequestCommand{}, ErrCancelActorIsRequired
	}
	if refundCents < 0 {
		return CancelRequestCommand{}, ErrRefundAmountIsInvalid
	}

	return CancelRequestCommand{
		requestID:    requestID,
		reason:       reason,
		actor:        actor,
		refundCents:  refundCents,
		refundReason: refundReason,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelRequestCommand) Validate() error {
	return c.guard.Validate(ErrCancelRequestCommandIsNotConstructed)
}

// RequestID returns the request to cancel.
func (c CancelRequestCommand) RequestID() int64 { return c.requestID }

// Reason returns the cancellation reason.
func (c CancelRequestCommand) Reason() string { return c.reason }

// Actor returns who is cancelling.
func (c CancelRequestCommand) Actor() string { return c.actor }

// RefundCents returns the refund in cents, 0 when none applies.
func (c CancelRequestCommand) RefundCents() int64 { return c.refundCents }

// RefundReason returns the refund explanation, "" when none applies.
func (c CancelRequestCommand) RefundReason() string { return c.refundReason }
