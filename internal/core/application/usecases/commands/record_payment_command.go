package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
	ErrPaymentMethodIsRequired = errors.New("payment method is required")
)

// RecordPaymentCommand settles a pending payment.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	requestID int64
	method    string
	reference string
	notes     string

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand creates a validated payment command. Reference
// and notes are optional; cash payments often have neither.
func NewRecordPaymentCommand(requestID int64, method, reference, notes string) (RecordPaymentCommand, error) {
	if requestID <= 0 {
		return RecordPaymentCommand{}, ErrRequestIDIsRequired
	}
	if method == "" {
		return RecordPaymentCommand{}, ErrPaymentMethodIsRequired
	}

	return RecordPaymentCommand{
		requestID: requestID,
		method:    method,
		reference: reference,
		notes:     notes,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

// RequestID returns the request being paid.
func (c RecordPaymentCommand) RequestID() int64 { return c.requestID }

// Method returns how the customer paid.
func (c RecordPaymentCommand) Method() string { return c.method }

// Reference returns the external payment reference, if any.
func (c RecordPaymentCommand) Reference() string { return c.reference }

// Notes returns free-form operator notes, if any.
func (c RecordPaymentCommand) Notes() string { return c.notes }
