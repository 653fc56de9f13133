package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/pkg/guard"
)

var (
	ErrAcceptRequestCommandIsNotConstructed = errors.New(
		"AcceptRequestCommand must be created via NewAcceptRequestCommand constructor",
	)
	ErrRequestIDIsRequired = errors.New("request id is required")
)

// AcceptRequestCommand approves a pending request and fixes the tariff it
// will be billed under.
type AcceptRequestCommand struct { //nolint:recvcheck //using for validation
	requestID     int64
	pricePerKg    kernel.Money
	minimumCharge kernel.Money

	guard guard.ConstructorGuard
}

// NewAcceptRequestCommand creates a validated acceptance command.
func NewAcceptRequestCommand(requestID int64, pricePerKgCents, minimumChargeCents int64) (AcceptRequestCommand, error) {
	cmd := AcceptRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if requestID <= 0 {
		return AcceptRequestCommand{}, ErrRequestIDIsRequired
	}
	cmd.requestID = requestID

	perKg, err := kernel.NewMoneyFromCents(pricePerKgCents)
	if err != nil {
		return AcceptRequestCommand{}, err
	}
	minCharge, err := kernel.NewMoneyFromCents(minimumChargeCents)
	if err != nil {
		return AcceptRequestCommand{}, err
	}
	cmd.pricePerKg = perKg
	cmd.minimumCharge = minCharge

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptRequestCommand) Validate() error {
	return c.guard.Validate(ErrAcceptRequestCommandIsNotConstructed)
}

// RequestID returns the request to accept.
func (c AcceptRequestCommand) RequestID() int64 { return c.requestID }

// PricePerKg returns the tariff to snapshot.
func (c AcceptRequestCommand) PricePerKg() kernel.Money { return c.pricePerKg }

// MinimumCharge returns the minimum charge to snapshot.
func (c AcceptRequestCommand) MinimumCharge() kernel.Money { return c.minimumCharge }
