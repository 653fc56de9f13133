package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/pkg/guard"
)

var (
	ErrSubmitRequestCommandIsNotConstructed = errors.New(
		"SubmitRequestCommand must be created via NewSubmitRequestCommand constructor",
	)
	ErrCustomerIDIsRequired = errors.New("customer id is required")
	ErrRoomNameIsRequired   = errors.New("room name is required")
)

// SubmitRequestCommand carries a customer's laundry request: who asks,
// which room to come to, and which service flow they want.
type SubmitRequestCommand struct { //nolint:recvcheck //using for validation
	customerID   string
	customerName string
	flow         request.Flow
	roomName     string

	guard guard.ConstructorGuard
}

// NewSubmitRequestCommand creates a validated submission command.
func NewSubmitRequestCommand(customerID, customerName string, flow request.Flow, roomName string) (SubmitRequestCommand, error) {
	cmd := SubmitRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setFlow(flow),
		cmd.setRoomName(roomName),
	); err != nil {
		return SubmitRequestCommand{}, err
	}

	cmd.customerName = customerName
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitRequestCommand) Validate() error {
	return c.guard.Validate(ErrSubmitRequestCommandIsNotConstructed)
}

// CustomerID returns the submitting customer's identifier.
func (c SubmitRequestCommand) CustomerID() string { return c.customerID }

// CustomerName returns the customer's display name.
func (c SubmitRequestCommand) CustomerName() string { return c.customerName }

// Flow returns the requested service flow.
func (c SubmitRequestCommand) Flow() request.Flow { return c.flow }

// RoomName returns the room the robot should visit.
func (c SubmitRequestCommand) RoomName() string { return c.roomName }

func (c *SubmitRequestCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}
	c.customerID = customerID
	return nil
}

func (c *SubmitRequestCommand) setFlow(flow request.Flow) error {
	if err := flow.Validate(); err != nil {
		return err
	}
	c.flow = flow
	return nil
}

func (c *SubmitRequestCommand) setRoomName(roomName string) error {
	if roomName == "" {
		return ErrRoomNameIsRequired
	}
	c.roomName = roomName
	return nil
}
