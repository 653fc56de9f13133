package request

import (
	"errors"
	"fmt"
)

// Event is an input to the request state machine. Events originate from
// admin actions, robot reports, beacon proximity, and the timeout
// supervisor; the machine itself does not care who raised them.
type Event int

const (
	// EventAccept approves a pending request (admin action).
	EventAccept Event = iota + 1

	// EventDispatch reserves a robot and sends it to the room. It covers
	// both the pickup leg and the delivery leg after washing.
	EventDispatch

	// EventArriveAtRoom is raised when a beacon proximity report matches
	// the request's room.
	EventArriveAtRoom

	// EventLoad confirms that laundry was placed on the robot.
	EventLoad

	// EventHandover confirms the clean laundry was handed back to the
	// customer; the robot is recalled to base.
	EventHandover

	// EventArriveAtBase is raised when the robot crosses the base dock
	// beacon, either carrying dirty laundry home or returning empty after
	// delivery.
	EventArriveAtBase

	// EventRecordWeight stores the measured weight and computes the total.
	EventRecordWeight

	// EventRequestPayment asks the customer to pay the computed total.
	EventRequestPayment

	// EventCompletePayment settles payment. PickupOnly and DeliveryOnly
	// complete here; PickupAndDelivery continues into Washing.
	EventCompletePayment

	// EventFinishWashing marks the wash cycle done.
	EventFinishWashing

	// EventComplete closes out a washing-branch request once the robot is
	// back at base.
	EventComplete

	// EventDecline rejects a pending request (admin action, reason
	// required).
	EventDecline

	// EventCancel aborts any non-terminal request (reason required).
	EventCancel
)

func eventStrings() map[Event]string {
	return map[Event]string{
		EventAccept:          "Accept",
		EventDispatch:        "Dispatch",
		EventArriveAtRoom:    "ArriveAtRoom",
		EventLoad:            "Load",
		EventHandover:        "Handover",
		EventArriveAtBase:    "ArriveAtBase",
		EventRecordWeight:    "RecordWeight",
		EventRequestPayment:  "RequestPayment",
		EventCompletePayment: "CompletePayment",
		EventFinishWashing:   "FinishWashing",
		EventComplete:        "Complete",
		EventDecline:         "Decline",
		EventCancel:          "Cancel",
	}
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if str, ok := eventStrings()[e]; ok {
		return str
	}
	return "Unknown"
}

var (
	// ErrInvalidTransition is returned when an event is not defined for the
	// current status. It is an expected outcome, surfaced to the caller and
	// never fatal.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyInState is returned when replaying an event whose target
	// the request already reached. Beacon and heartbeat events may be
	// delivered more than once; handlers treat this as a successful no-op.
	ErrAlreadyInState = errors.New("already in target state")
)

// transitions is the edge table of the state machine. EventCompletePayment
// is absent here because its target depends on the flow; EventCancel is
// handled separately because it is valid from every non-terminal status.
func transitions() map[Status]map[Event]Status {
	return map[Status]map[Event]Status{
		Pending: {
			EventAccept:  Accepted,
			EventDecline: Declined,
		},
		Accepted: {
			EventDispatch: RobotEnRoute,
		},
		RobotEnRoute: {
			EventArriveAtRoom: ArrivedAtRoom,
		},
		ArrivedAtRoom: {
			EventLoad: LaundryLoaded,
		},
		LaundryLoaded: {
			EventArriveAtBase: ReturnedToBase,
		},
		ReturnedToBase: {
			EventRecordWeight: WeighingComplete,
		},
		WeighingComplete: {
			EventRequestPayment: PaymentPending,
		},
		Washing: {
			EventFinishWashing: FinishedWashing,
		},
		FinishedWashing: {
			EventDispatch: FinishedWashingGoingToRoom,
		},
		FinishedWashingGoingToRoom: {
			EventArriveAtRoom: FinishedWashingArrivedAtRoom,
		},
		FinishedWashingArrivedAtRoom: {
			EventHandover: FinishedWashingGoingToBase,
		},
		FinishedWashingGoingToBase: {
			EventArriveAtBase: FinishedWashingAwaitingPickup,
		},
		FinishedWashingAwaitingPickup: {
			EventComplete: Completed,
		},
	}
}

// eventTargets lists every status an event can land in, used to detect
// idempotent replays: receiving an event while already in one of its
// targets is ErrAlreadyInState, not ErrInvalidTransition.
func eventTargets(e Event, flow Flow) []Status {
	switch e {
	case EventCompletePayment:
		if flow.TakesWashingBranch() {
			return []Status{Washing}
		}
		return []Status{Completed}
	case EventCancel:
		return []Status{Cancelled}
	default:
		var targets []Status
		for _, edges := range transitions() {
			if to, ok := edges[e]; ok {
				targets = append(targets, to)
			}
		}
		return targets
	}
}

// Next maps (current status, event) to the next status. It is pure decision
// logic: no I/O, no clock, no side effects. Undefined pairs yield
// ErrInvalidTransition; replays of an already-applied event yield
// ErrAlreadyInState so that duplicated beacon or heartbeat deliveries stay
// harmless.
func Next(current Status, e Event, flow Flow) (Status, error) {
	if err := current.Validate(); err != nil {
		return Unknown, err
	}
	if err := flow.Validate(); err != nil {
		return Unknown, err
	}

	for _, target := range eventTargets(e, flow) {
		if current == target {
			return current, ErrAlreadyInState
		}
	}

	if e == EventCancel {
		if current.IsTerminal() {
			return Unknown, invalidTransition(current, e)
		}
		return Cancelled, nil
	}

	if e == EventCompletePayment {
		if current != PaymentPending {
			return Unknown, invalidTransition(current, e)
		}
		if flow.TakesWashingBranch() {
			return Washing, nil
		}
		return Completed, nil
	}

	edges, ok := transitions()[current]
	if !ok {
		return Unknown, invalidTransition(current, e)
	}
	next, ok := edges[e]
	if !ok {
		return Unknown, invalidTransition(current, e)
	}
	return next, nil
}

func invalidTransition(current Status, e Event) error {
	return fmt.Errorf("event %s is not valid in status %s: %w", e, current, ErrInvalidTransition)
}
