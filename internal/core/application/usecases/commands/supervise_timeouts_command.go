package commands

import (
	"errors"

	"laundrybot/internal/pkg/guard"
)

var ErrSuperviseTimeoutsCommandIsNotConstructed = errors.New(
	"SuperviseTimeoutsCommand must be created via NewSuperviseTimeoutsCommand constructor",
)

// SuperviseTimeoutsCommand triggers one supervision pass over every active
// request. The supervisor job raises it on a fixed cadence.
type SuperviseTimeoutsCommand struct {
	guard guard.ConstructorGuard
}

// NewSuperviseTimeoutsCommand creates a parameterless supervision command.
func NewSuperviseTimeoutsCommand() SuperviseTimeoutsCommand {
	return SuperviseTimeoutsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *SuperviseTimeoutsCommand) Validate() error {
	return c.guard.Validate(ErrSuperviseTimeoutsCommandIsNotConstructed)
}
