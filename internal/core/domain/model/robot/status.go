package robot

import (
	"fmt"

	"laundrybot/internal/pkg/errs"
)

// Status is the fleet-side state of a robot. It is about availability for
// dispatch, not about the request lifecycle; a robot carries at most one
// request and its binding is tracked separately.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota

	// StatusAvailable means the robot is online, idle, and reservable.
	StatusAvailable

	// StatusDispatching means the robot was reserved and a navigation
	// command is in flight, but the robot has not confirmed the task yet.
	StatusDispatching

	// StatusBusy means the robot confirmed a task and is working a request.
	StatusBusy

	// StatusOffline means no heartbeat arrived within the liveness grace.
	StatusOffline

	// StatusError means the robot reported a fault and needs an operator.
	StatusError
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusAvailable:   "Available",
		StatusDispatching: "Dispatching",
		StatusBusy:        "Busy",
		StatusOffline:     "Offline",
		StatusError:       "Error",
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status name from persisted state.
func StatusFromString(name string) (Status, error) {
	for s, str := range statusStrings() {
		if str == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a known robot status", name))
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid robot status", s))
	}
	return nil
}
