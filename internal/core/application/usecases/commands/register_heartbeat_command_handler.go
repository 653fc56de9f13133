package commands

import (
	"context"
	"time"

	"laundrybot/internal/core/registry"
)

// RegisterHeartbeatCommandHandler feeds robot telemetry into the registry.
// Heartbeats arrive every few seconds per robot; the handler does no
// database work of its own, the registry's write-through covers it.
type RegisterHeartbeatCommandHandler struct {
	fleet *registry.Registry
}

// NewRegisterHeartbeatCommandHandler creates a handler for heartbeats.
func NewRegisterHeartbeatCommandHandler(fleet *registry.Registry) RegisterHeartbeatCommandHandler {
	return RegisterHeartbeatCommandHandler{fleet: fleet}
}

// Handle applies the heartbeat, registering unknown robots on the fly.
func (h RegisterHeartbeatCommandHandler) Handle(ctx context.Context, command RegisterHeartbeatCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if _, err := h.fleet.RegisterHeartbeat(
		ctx, command.RobotName(), command.Heartbeat(), time.Now()); err != nil {
		return err
	}

	if command.Faulted() {
		return h.fleet.MarkError(ctx, command.RobotName(), command.Heartbeat().CurrentTask)
	}
	return nil
}
