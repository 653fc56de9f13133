package request

import (
	"fmt"

	"laundrybot/internal/pkg/errs"
)

// Status represents the lifecycle stage of a laundry request.
//
// Main chain:
//
//	Pending → Accepted → RobotEnRoute → ArrivedAtRoom → LaundryLoaded
//	        → ReturnedToBase → WeighingComplete → PaymentPending → Completed
//
// PickupAndDelivery requests branch after payment into the washing chain:
//
//	PaymentPending → Washing → FinishedWashing → FinishedWashingGoingToRoom
//	              → FinishedWashingArrivedAtRoom → FinishedWashingGoingToBase
//	              → FinishedWashingAwaitingPickup → Completed
//
// Pending may be Declined by an admin; any non-terminal status may be
// Cancelled. Completed, Declined, and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status. The zero value
	// helps catch uninitialized Status fields.
	Unknown Status = iota

	// Pending is the initial status after customer submission, awaiting
	// admin review.
	Pending

	// Accepted means the admin approved the request and the tariff was
	// snapshotted; the request awaits robot dispatch.
	Accepted

	// RobotEnRoute means a robot is reserved and navigating to the
	// customer's room.
	RobotEnRoute

	// ArrivedAtRoom means the robot's proximity beacon report matched the
	// request's room.
	ArrivedAtRoom

	// LaundryLoaded means the customer placed laundry on the robot.
	LaundryLoaded

	// ReturnedToBase means the robot carried the laundry back to the base
	// dock.
	ReturnedToBase

	// WeighingComplete means the load was weighed and the total charge
	// computed.
	WeighingComplete

	// PaymentPending means the customer was asked to pay the computed
	// total.
	PaymentPending

	// Washing means payment settled and the laundry is being washed
	// (PickupAndDelivery only).
	Washing

	// FinishedWashing means washing is done and the load awaits a delivery
	// robot.
	FinishedWashing

	// FinishedWashingGoingToRoom means a robot is delivering the clean
	// laundry back to the room.
	FinishedWashingGoingToRoom

	// FinishedWashingArrivedAtRoom means the delivery robot reached the
	// room.
	FinishedWashingArrivedAtRoom

	// FinishedWashingGoingToBase means the laundry was handed over and the
	// robot is returning to base.
	FinishedWashingGoingToBase

	// FinishedWashingAwaitingPickup means the robot is back at base and the
	// cycle awaits final confirmation.
	FinishedWashingAwaitingPickup

	// Completed is the successful terminal status.
	Completed

	// Declined is the terminal status for requests rejected from Pending.
	Declined

	// Cancelled is the terminal status for requests aborted mid-flight.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                       "Unknown",
		Pending:                       "Pending",
		Accepted:                      "Accepted",
		RobotEnRoute:                  "RobotEnRoute",
		ArrivedAtRoom:                 "ArrivedAtRoom",
		LaundryLoaded:                 "LaundryLoaded",
		ReturnedToBase:                "ReturnedToBase",
		WeighingComplete:              "WeighingComplete",
		PaymentPending:                "PaymentPending",
		Washing:                       "Washing",
		FinishedWashing:               "FinishedWashing",
		FinishedWashingGoingToRoom:    "FinishedWashingGoingToRoom",
		FinishedWashingArrivedAtRoom:  "FinishedWashingArrivedAtRoom",
		FinishedWashingGoingToBase:    "FinishedWashingGoingToBase",
		FinishedWashingAwaitingPickup: "FinishedWashingAwaitingPickup",
		Completed:                     "Completed",
		Declined:                      "Declined",
		Cancelled:                     "Cancelled",
	}
}

// String implements fmt.Stringer; unknown values render as "Unknown".
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok && s != Unknown {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status name, as used by the timeout policy
// configuration file.
func StatusFromString(name string) (Status, error) {
	for s, str := range statusStrings() {
		if s != Unknown && str == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a known status", name))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether the status ends the lifecycle. Terminal
// requests hold no robot and are skipped by the timeout supervisor.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Declined || s == Cancelled
}
