package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var ErrDispatchRobotCommandIsNotConstructed = errors.New(
	"DispatchRobotCommand must be created via NewDispatchRobotCommand constructor",
)

// DispatchRobotCommand asks the orchestrator to send a robot for a
// request. It serves both the pickup leg (Accepted) and the delivery leg
// (FinishedWashing).
type DispatchRobotCommand struct { //nolint:recvcheck //using for validation
	requestID int64

	guard guard.ConstructorGuard
}

// NewDispatchRobotCommand creates a validated dispatch command.
func NewDispatchRobotCommand(requestID int64) (DispatchRobotCommand, error) {
	if requestID <= 0 {
		return DispatchRobotCommand{}, ErrRequestIDIsRequired
	}

	return DispatchRobotCommand{
		requestID: requestID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchRobotCommand) Validate() error {
	return c.guard.Validate(ErrDispatchRobotCommandIsNotConstructed)
}

// RequestID returns the request to dispatch for.
func (c DispatchRobotCommand) RequestID() int64 { return c.requestID }
