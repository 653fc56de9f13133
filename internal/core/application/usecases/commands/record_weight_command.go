package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrRecordWeightCommandIsNotConstructed = errors.New(
		"RecordWeightCommand must be created via NewRecordWeightCommand constructor",
	)
	ErrWeightIsInvalid = errors.New("weight must be greater than 0")
)

// RecordWeightCommand stores the scale reading taken at the base dock.
type RecordWeightCommand struct { //nolint:recvcheck //using for validation
	requestID int64
	weightKg  float64

	guard guard.ConstructorGuard
}

// NewRecordWeightCommand creates a validated weighing command.
func NewRecordWeightCommand(requestID int64, weightKg float64) (RecordWeightCommand, error) {
	if requestID <= 0 {
		return RecordWeightCommand{}, ErrRequestIDIsRequired
	}
	if weightKg <= 0 {
		return RecordWeightCommand{}, ErrWeightIsInvalid
	}

	return RecordWeightCommand{
		requestID: requestID,
		weightKg:  weightKg,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordWeightCommand) Validate() error {
	return c.guard.Validate(ErrRecordWeightCommandIsNotConstructed)
}

// RequestID returns the request being weighed.
func (c RecordWeightCommand) RequestID() int64 { return c.requestID }

// WeightKg returns the scale reading.
func (c RecordWeightCommand) WeightKg() float64 { return c.weightKg }
