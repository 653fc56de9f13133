package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/pkg/guard"
)

var (
	ErrRecordAdjustmentCommandIsNotConstructed = errors.New(
		"RecordAdjustmentCommand must be created via NewRecordAdjustmentCommand constructor",
	)
	ErrAdjustmentReasonIsRequired = errors.New("adjustment reason is required")
	ErrAdjustmentActorIsRequired  = errors.New("adjustment actor is required")
)

// RecordAdjustmentCommand appends one entry to a request's money ledger.
type RecordAdjustmentCommand struct { //nolint:recvcheck //using for validation
	requestID   int64
	kind        payment.Kind
	amountCents int64
	reason      string
	actor       string

	guard guard.ConstructorGuard
}

// NewRecordAdjustmentCommand creates a validated adjustment command.
func NewRecordAdjustmentCommand(requestID int64, kind payment.Kind, amountCents int64, reason, actor string) (RecordAdjustmentCommand, error) {
	if requestID <= 0 {
		return RecordAdjustmentCommand{}, ErrRequestIDIsRequired
	}
	if err := kind.Validate(); err != nil {
		return RecordAdjustmentCommand{}, err
	}
	if reason == "" {
		return RecordAdjustmentCommand{}, ErrAdjustmentReasonIsRequired
	}
	if actor == "" {
		return RecordAdjustmentCommand{}, ErrAdjustmentActorIsRequired
	}

	return RecordAdjustmentCommand{
		requestID:   requestID,
		kind:        kind,
		amountCents: amountCents,
		reason:      reason,
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrRecordAdjustmentCommandIsNotConstructed)
}

// RequestID returns the request the entry belongs to.
func (c RecordAdjustmentCommand) RequestID() int64 { return c.requestID }

// Kind returns the entry classification.
func (c RecordAdjustmentCommand) Kind() payment.Kind { return c.kind }

// AmountCents returns the entry amount as given by the caller.
func (c RecordAdjustmentCommand) AmountCents() int64 { return c.amountCents }

// Reason returns the mandatory explanation.
func (c RecordAdjustmentCommand) Reason() string { return c.reason }

// Actor returns who records the entry.
func (c RecordAdjustmentCommand) Actor() string { return c.actor }
