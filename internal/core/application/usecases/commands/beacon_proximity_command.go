package commands

import (
	"errors"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/pkg/guard"
)

var (
	ErrBeaconProximityCommandIsNotConstructed = errors.New(
		"BeaconProximityCommand must be created via NewBeaconProximityCommand constructor",
	)
	ErrRobotNameIsRequired = errors.New("robot name is required")
)

// BeaconProximityCommand is a robot's report that it sighted a beacon with
// a given signal strength. Reports are frequent and may be duplicated or
// out of order; the handler treats them as hints, not commands.
type BeaconProximityCommand struct { //nolint:recvcheck //using for validation
	robotName string
	beaconMac string
	rssi      int

	guard guard.ConstructorGuard
}

// NewBeaconProximityCommand creates a validated proximity report.
func NewBeaconProximityCommand(robotName, beaconMac string, rssi int) (BeaconProximityCommand, error) {
	if robotName == "" {
		return BeaconProximityCommand{}, ErrRobotNameIsRequired
	}

	mac := kernel.NormalizeMac(beaconMac)
	if !kernel.ValidMac(mac) {
		return BeaconProximityCommand{}, kernel.ErrBeaconMacIsInvalid
	}

	return BeaconProximityCommand{
		robotName: robotName,
		beaconMac: mac,
		rssi:      rssi,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c BeaconProximityCommand) Validate() error {
	return c.guard.Validate(ErrBeaconProximityCommandIsNotConstructed)
}

// RobotName returns the reporting robot.
func (c BeaconProximityCommand) RobotName() string { return c.robotName }

// BeaconMac returns the normalized sighted MAC.
func (c BeaconProximityCommand) BeaconMac() string { return c.beaconMac }

// Rssi returns the signal strength reading in dBm.
func (c BeaconProximityCommand) Rssi() int { return c.rssi }
