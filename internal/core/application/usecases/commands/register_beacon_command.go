package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/beacon"
	"laundrybot/internal/pkg/guard"
)

var ErrRegisterBeaconCommandIsNotConstructed = errors.New(
	"RegisterBeaconCommand must be created via NewRegisterBeaconCommand constructor",
)

// RegisterBeaconCommand adds or updates a beacon in the catalog.
type RegisterBeaconCommand struct { //nolint:recvcheck //using for validation
	beacon *beacon.Beacon

	guard guard.ConstructorGuard
}

// NewRegisterBeaconCommand creates a validated catalog command. Beacon
// validation happens in the beacon constructor; this command only carries
// the result.
func NewRegisterBeaconCommand(mac, roomName string, rssiThreshold int, isBase bool) (RegisterBeaconCommand, error) {
	b, err := beacon.NewBeacon(mac, roomName, rssiThreshold, isBase)
	if err != nil {
		return RegisterBeaconCommand{}, err
	}

	return RegisterBeaconCommand{
		beacon: b,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterBeaconCommand) Validate() error {
	return c.guard.Validate(ErrRegisterBeaconCommandIsNotConstructed)
}

// Beacon returns the catalog entry to store.
func (c RegisterBeaconCommand) Beacon() *beacon.Beacon { return c.beacon }
