package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/pkg/guard"
)

var ErrRegisterHeartbeatCommandIsNotConstructed = errors.New(
	"RegisterHeartbeatCommand must be created via NewRegisterHeartbeatCommand constructor",
)

// RegisterHeartbeatCommand carries one telemetry report from a robot.
type RegisterHeartbeatCommand struct { //nolint:recvcheck //using for validation
	robotName string
	heartbeat robot.Heartbeat
	faulted   bool

	guard guard.ConstructorGuard
}

// NewRegisterHeartbeatCommand creates a validated heartbeat command.
// Faulted marks reports where the firmware flags an error condition.
func NewRegisterHeartbeatCommand(robotName string, heartbeat robot.Heartbeat, faulted bool) (RegisterHeartbeatCommand, error) {
	if robotName == "" {
		return RegisterHeartbeatCommand{}, ErrRobotNameIsRequired
	}

	return RegisterHeartbeatCommand{
		robotName: robotName,
		heartbeat: heartbeat,
		faulted:   faulted,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterHeartbeatCommand) Validate() error {
	return c.guard.Validate(ErrRegisterHeartbeatCommandIsNotConstructed)
}

// RobotName returns the reporting robot.
func (c RegisterHeartbeatCommand) RobotName() string { return c.robotName }

// Heartbeat returns the telemetry payload.
func (c RegisterHeartbeatCommand) Heartbeat() robot.Heartbeat { return c.heartbeat }

// Faulted reports whether the firmware flagged an error.
func (c RegisterHeartbeatCommand) Faulted() bool { return c.faulted }
