package kernel

import (
	"regexp"
	"strings"

	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/guard"
)

// ErrRoomIsNotConstructed is returned when using a Room that was not created
// via NewRoom.
var ErrRoomIsNotConstructed = errs.NewValueIsRequiredError(
	"room must be created via NewRoom constructor")

// ErrRoomNameIsRequired is returned when the room name is empty.
var ErrRoomNameIsRequired = errs.NewValueIsRequiredError("room name")

// ErrBeaconMacIsInvalid is returned for a malformed beacon MAC address.
var ErrBeaconMacIsInvalid = errs.NewValueIsInvalidError("beacon mac")

var macPattern = regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`)

// NormalizeMac upper-cases a colon-separated MAC address so that lookups
// keyed by MAC are insensitive to how the robot firmware formats them.
func NormalizeMac(mac string) string {
	return strings.ToUpper(strings.TrimSpace(mac))
}

// ValidMac reports whether a normalized MAC looks like a colon-separated
// hardware address.
func ValidMac(mac string) bool {
	return macPattern.MatchString(mac)
}

// Room is an immutable value object binding a human-readable room name to
// the beacon installed in it. Requests and robots reference rooms by this
// pair rather than by coordinates; navigation between rooms is an external
// capability of the robot.
//
// A Room may carry an empty beacon MAC while the request is still waiting
// for a beacon to be matched.
type Room struct { //nolint:recvcheck //using for validation
	name      string
	beaconMac string
	guard     guard.ConstructorGuard
}

// NewRoom creates a Room with a validated name and an optional beacon MAC.
// An empty MAC means "not yet matched"; a non-empty MAC must look like a
// colon-separated hardware address.
func NewRoom(name, beaconMac string) (Room, error) {
	if strings.TrimSpace(name) == "" {
		return Room{}, ErrRoomNameIsRequired
	}

	beaconMac = NormalizeMac(beaconMac)
	if beaconMac != "" && !macPattern.MatchString(beaconMac) {
		return Room{}, ErrBeaconMacIsInvalid
	}

	return Room{
		name:      name,
		beaconMac: beaconMac,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Name returns the room name.
func (r Room) Name() string {
	return r.name
}

// BeaconMac returns the normalized beacon MAC, or "" when no beacon has been
// matched yet.
func (r Room) BeaconMac() string {
	return r.beaconMac
}

// HasBeacon reports whether a beacon is bound to the room.
func (r Room) HasBeacon() bool {
	return r.beaconMac != ""
}

// WithBeacon returns a copy of the room bound to the given beacon MAC.
func (r Room) WithBeacon(beaconMac string) (Room, error) {
	return NewRoom(r.name, beaconMac)
}

// IsEqual compares rooms by name and beacon binding.
func (r Room) IsEqual(other Room) bool {
	return r.name == other.name && r.beaconMac == other.beaconMac
}

// Validate ensures the room was properly constructed.
func (r Room) Validate() error {
	return r.guard.Validate(ErrRoomIsNotConstructed)
}
