package beacon

import (
	"errors"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/guard"
)

// DefaultRssiThreshold is applied when a beacon is registered without an
// explicit threshold. Readings are negative dBm; a robot is "at" a beacon
// when the reading is at or above the threshold.
const DefaultRssiThreshold = -70

var (
	// ErrBeaconIsNotConstructed is returned when using an improperly
	// initialized Beacon.
	ErrBeaconIsNotConstructed = errors.New("Beacon must be created via NewBeacon constructor")

	// ErrRoomNameIsRequired is returned when a non-base beacon has no room.
	ErrRoomNameIsRequired = errs.NewValueIsRequiredError("room name")
)

// Beacon maps a BLE beacon MAC to a place on the floor. Room beacons mark
// customer rooms; the base beacon marks the dock where robots load and
// unload. Proximity reports are matched against this catalog to turn raw
// MAC sightings into lifecycle events.
type Beacon struct {
	mac           string
	roomName      string
	rssiThreshold int
	active        bool
	isBase        bool
	guard         guard.ConstructorGuard
}

// NewBeacon registers a beacon. Pass isBase true for the dock beacon, in
// which case roomName may be empty. A zero threshold selects
// DefaultRssiThreshold.
func NewBeacon(mac, roomName string, rssiThreshold int, isBase bool) (*Beacon, error) {
	normalized, err := normalizeMac(mac)
	if err != nil {
		return nil, err
	}
	if !isBase && roomName == "" {
		return nil, ErrRoomNameIsRequired
	}
	if rssiThreshold == 0 {
		rssiThreshold = DefaultRssiThreshold
	}
	if rssiThreshold < -120 || rssiThreshold > 0 {
		return nil, errs.NewValueIsOutOfRangeError("rssi threshold", rssiThreshold, -120, 0)
	}

	return &Beacon{
		mac:           normalized,
		roomName:      roomName,
		rssiThreshold: rssiThreshold,
		active:        true,
		isBase:        isBase,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func normalizeMac(mac string) (string, error) {
	normalized := kernel.NormalizeMac(mac)
	if !kernel.ValidMac(normalized) {
		return "", kernel.ErrBeaconMacIsInvalid
	}
	return normalized, nil
}

// Restore reconstructs a Beacon from persistent storage.
func Restore(mac, roomName string, rssiThreshold int, active, isBase bool) (*Beacon, error) {
	b, err := NewBeacon(mac, roomName, rssiThreshold, isBase)
	if err != nil {
		return nil, err
	}
	b.active = active
	return b, nil
}

// Validate checks that the Beacon was created through a constructor.
func (b *Beacon) Validate() error {
	if b == nil {
		return ErrBeaconIsNotConstructed
	}
	return b.guard.Validate(ErrBeaconIsNotConstructed)
}

// Mac returns the normalized beacon MAC.
func (b *Beacon) Mac() string { return b.mac }

// RoomName returns the room the beacon marks, "" for the base beacon.
func (b *Beacon) RoomName() string { return b.roomName }

// RssiThreshold returns the minimum signal strength counting as arrival.
func (b *Beacon) RssiThreshold() int { return b.rssiThreshold }

// IsActive reports whether proximity reports for this beacon are honored.
func (b *Beacon) IsActive() bool { return b.active }

// IsBase reports whether this is the dock beacon.
func (b *Beacon) IsBase() bool { return b.isBase }

// SetActive switches the beacon in or out of the matching catalog.
func (b *Beacon) SetActive(active bool) { b.active = active }

// InRange reports whether an RSSI reading counts as being at the beacon.
// Readings are negative dBm, so closer means a larger value.
func (b *Beacon) InRange(rssi int) bool {
	return rssi >= b.rssiThreshold
}

// IsEqual compares beacons by MAC.
func (b *Beacon) IsEqual(other *Beacon) bool {
	if other == nil {
		return false
	}
	return b.mac == other.mac
}
