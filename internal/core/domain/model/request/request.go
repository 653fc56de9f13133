package request

import (
	"errors"
	"time"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/pkg/errs"
)

var (
	// ErrRequestIsNotConstructed is returned when a LaundryRequest was not
	// created through NewLaundryRequest or Restore.
	ErrRequestIsNotConstructed = errors.New(
		"LaundryRequest must be created via NewLaundryRequest or Restore")

	// ErrCustomerIsRequired is returned when the customer id is empty.
	ErrCustomerIsRequired = errs.NewValueIsRequiredError("customer id")

	// ErrReasonIsRequired is returned when declining or cancelling without
	// a reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")

	// ErrWeightIsInvalid is returned for non-positive weight readings.
	ErrWeightIsInvalid = errs.NewValueIsInvalidError("weight must be greater than 0")

	// ErrRobotNameIsRequired is returned when dispatching without a robot.
	ErrRobotNameIsRequired = errs.NewValueIsRequiredError("robot name")

	// ErrTariffNotSnapshotted is returned when recording weight before the
	// acceptance tariff snapshot exists.
	ErrTariffNotSnapshotted = errs.NewValueIsRequiredError("tariff snapshot")
)

// LaundryRequest is the aggregate root for one customer laundry cycle. It
// owns the lifecycle status, the per-stage timestamps, the tariff snapshot
// taken at acceptance, and the robot/room bindings. All mutation goes
// through event methods that delegate to the state machine in Next, so a
// request can never hold a status its history does not justify.
//
// Every accepted transition stamps the matching stage timestamp exactly
// once and refreshes StatusChangedAt, which the timeout supervisor uses to
// recompute dwell durations from persisted state after a restart.
type LaundryRequest struct {
	id           int64
	customerID   string
	customerName string
	flow         Flow
	status       Status

	room      kernel.Room
	robotName string

	requestedAt        time.Time
	statusChangedAt    time.Time
	acceptedAt         *time.Time
	dispatchedAt       *time.Time
	arrivedAtRoomAt    *time.Time
	loadedAt           *time.Time
	returnedAt         *time.Time
	weighedAt          *time.Time
	paymentRequestedAt *time.Time
	paymentCompletedAt *time.Time
	completedAt        *time.Time

	weightKg      float64
	pricePerKg    kernel.Money
	minimumCharge kernel.Money
	totalCost     kernel.Money

	paymentMethod    string
	paymentReference string
	paymentNotes     string

	declineReason string
	cancelReason  string
	cancelActor   string
	cancelledAt   *time.Time
	refundAmount  kernel.Money
	refundReason  string

	isConstructed bool
}

// NewLaundryRequest creates a request in Pending for the given customer and
// room. The id stays zero until the persistence layer assigns one.
func NewLaundryRequest(customerID, customerName string, flow Flow, room kernel.Room, now time.Time) (*LaundryRequest, error) {
	if customerID == "" {
		return nil, ErrCustomerIsRequired
	}
	if err := flow.Validate(); err != nil {
		return nil, err
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}

	return &LaundryRequest{
		customerID:      customerID,
		customerName:    customerName,
		flow:            flow,
		status:          Pending,
		room:            room,
		requestedAt:     now,
		statusChangedAt: now,
		isConstructed:   true,
	}, nil
}

// Snapshot is the flat persisted form of a LaundryRequest, shared between
// Restore and the repository DTO mapping.
type Snapshot struct {
	ID           int64
	CustomerID   string
	CustomerName string
	Flow         Flow
	Status       Status

	RoomName  string
	BeaconMac string
	RobotName string

	RequestedAt        time.Time
	StatusChangedAt    time.Time
	AcceptedAt         *time.Time
	DispatchedAt       *time.Time
	ArrivedAtRoomAt    *time.Time
	LoadedAt           *time.Time
	ReturnedAt         *time.Time
	WeighedAt          *time.Time
	PaymentRequestedAt *time.Time
	PaymentCompletedAt *time.Time
	CompletedAt        *time.Time

	WeightKg           float64
	PricePerKgCents    int64
	MinimumChargeCents int64
	TotalCostCents     int64

	PaymentMethod    string
	PaymentReference string
	PaymentNotes     string

	DeclineReason string
	CancelReason  string
	CancelActor   string
	CancelledAt   *time.Time
	RefundCents   int64
	RefundReason  string
}

// Restore reconstructs a request from its persisted snapshot. Unlike
// NewLaundryRequest it accepts any valid status, because the stored state
// already passed the state machine once.
func Restore(s Snapshot) (*LaundryRequest, error) {
	if s.CustomerID == "" {
		return nil, ErrCustomerIsRequired
	}
	if err := s.Flow.Validate(); err != nil {
		return nil, err
	}
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}

	room, err := kernel.NewRoom(s.RoomName, s.BeaconMac)
	if err != nil {
		return nil, err
	}

	perKg, err := kernel.NewMoneyFromCents(s.PricePerKgCents)
	if err != nil {
		return nil, err
	}
	minCharge, err := kernel.NewMoneyFromCents(s.MinimumChargeCents)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoneyFromCents(s.TotalCostCents)
	if err != nil {
		return nil, err
	}
	refund, err := kernel.NewMoneyFromCents(s.RefundCents)
	if err != nil {
		return nil, err
	}

	return &LaundryRequest{
		id:                 s.ID,
		customerID:         s.CustomerID,
		customerName:       s.CustomerName,
		flow:               s.Flow,
		status:             s.Status,
		room:               room,
		robotName:          s.RobotName,
		requestedAt:        s.RequestedAt,
		statusChangedAt:    s.StatusChangedAt,
		acceptedAt:         s.AcceptedAt,
		dispatchedAt:       s.DispatchedAt,
		arrivedAtRoomAt:    s.ArrivedAtRoomAt,
		loadedAt:           s.LoadedAt,
		returnedAt:         s.ReturnedAt,
		weighedAt:          s.WeighedAt,
		paymentRequestedAt: s.PaymentRequestedAt,
		paymentCompletedAt: s.PaymentCompletedAt,
		completedAt:        s.CompletedAt,
		weightKg:           s.WeightKg,
		pricePerKg:         perKg,
		minimumCharge:      minCharge,
		totalCost:          total,
		paymentMethod:      s.PaymentMethod,
		paymentReference:   s.PaymentReference,
		paymentNotes:       s.PaymentNotes,
		declineReason:      s.DeclineReason,
		cancelReason:       s.CancelReason,
		cancelActor:        s.CancelActor,
		cancelledAt:        s.CancelledAt,
		refundAmount:       refund,
		refundReason:       s.RefundReason,
		isConstructed:      true,
	}, nil
}

// ToSnapshot flattens the aggregate for persistence.
func (r *LaundryRequest) ToSnapshot() Snapshot {
	return Snapshot{
		ID:                 r.id,
		CustomerID:         r.customerID,
		CustomerName:       r.customerName,
		Flow:               r.flow,
		Status:             r.status,
		RoomName:           r.room.Name(),
		BeaconMac:          r.room.BeaconMac(),
		RobotName:          r.robotName,
		RequestedAt:        r.requestedAt,
		StatusChangedAt:    r.statusChangedAt,
		AcceptedAt:         r.acceptedAt,
		DispatchedAt:       r.dispatchedAt,
		ArrivedAtRoomAt:    r.arrivedAtRoomAt,
		LoadedAt:           r.loadedAt,
		ReturnedAt:         r.returnedAt,
		WeighedAt:          r.weighedAt,
		PaymentRequestedAt: r.paymentRequestedAt,
		PaymentCompletedAt: r.paymentCompletedAt,
		CompletedAt:        r.completedAt,
		WeightKg:           r.weightKg,
		PricePerKgCents:    r.pricePerKg.Cents(),
		MinimumChargeCents: r.minimumCharge.Cents(),
		TotalCostCents:     r.totalCost.Cents(),
		PaymentMethod:      r.paymentMethod,
		PaymentReference:   r.paymentReference,
		PaymentNotes:       r.paymentNotes,
		DeclineReason:      r.declineReason,
		CancelReason:       r.cancelReason,
		CancelActor:        r.cancelActor,
		CancelledAt:        r.cancelledAt,
		RefundCents:        r.refundAmount.Cents(),
		RefundReason:       r.refundReason,
	}
}

// Validate ensures the request was created through a constructor.
func (r *LaundryRequest) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRequestIsNotConstructed
	}
	return nil
}

// ID returns the persistence-assigned identifier (0 before first save).
func (r *LaundryRequest) ID() int64 { return r.id }

// SetID is called once by the repository after the insert assigns an id.
func (r *LaundryRequest) SetID(id int64) { r.id = id }

// CustomerID returns the owning customer's identifier.
func (r *LaundryRequest) CustomerID() string { return r.customerID }

// CustomerName returns the customer's display name.
func (r *LaundryRequest) CustomerName() string { return r.customerName }

// Flow returns the request classification.
func (r *LaundryRequest) Flow() Flow { return r.flow }

// Status returns the current lifecycle status.
func (r *LaundryRequest) Status() Status { return r.status }

// Room returns the room binding, including the matched beacon if any.
func (r *LaundryRequest) Room() kernel.Room { return r.room }

// RobotName returns the reserved robot's name, or "" when none is bound.
func (r *LaundryRequest) RobotName() string { return r.robotName }

// RequestedAt returns the submission instant.
func (r *LaundryRequest) RequestedAt() time.Time { return r.requestedAt }

// StatusChangedAt returns when the current status was entered. The timeout
// supervisor computes dwell as now minus this value.
func (r *LaundryRequest) StatusChangedAt() time.Time { return r.statusChangedAt }

// WeightKg returns the measured weight, 0 until weighing.
func (r *LaundryRequest) WeightKg() float64 { return r.weightKg }

// PricePerKg returns the tariff snapshotted at acceptance.
func (r *LaundryRequest) PricePerKg() kernel.Money { return r.pricePerKg }

// MinimumCharge returns the minimum charge snapshotted at acceptance.
func (r *LaundryRequest) MinimumCharge() kernel.Money { return r.minimumCharge }

// TotalCost returns the computed weight charge after weighing.
func (r *LaundryRequest) TotalCost() kernel.Money { return r.totalCost }

// PaymentMethod returns how the customer settled, "" until payment.
func (r *LaundryRequest) PaymentMethod() string { return r.paymentMethod }

// PaymentReference returns the external payment reference, if any.
func (r *LaundryRequest) PaymentReference() string { return r.paymentReference }

// DeclineReason returns the admin's reason for a declined request.
func (r *LaundryRequest) DeclineReason() string { return r.declineReason }

// CancelReason returns the reason recorded at cancellation.
func (r *LaundryRequest) CancelReason() string { return r.cancelReason }

// CancelActor returns who cancelled the request.
func (r *LaundryRequest) CancelActor() string { return r.cancelActor }

// RefundAmount returns the refund recorded for a post-payment cancellation.
func (r *LaundryRequest) RefundAmount() kernel.Money { return r.refundAmount }

// PaymentWasRequested reports whether the request reached PaymentPending at
// some point; cancellation beyond that point requires a refund decision.
func (r *LaundryRequest) PaymentWasRequested() bool {
	return r.paymentRequestedAt != nil
}

// apply runs the state machine and, on success, moves the status and
// refreshes statusChangedAt. ErrAlreadyInState and ErrInvalidTransition
// propagate unchanged.
func (r *LaundryRequest) apply(e Event, now time.Time) error {
	next, err := Next(r.status, e, r.flow)
	if err != nil {
		return err
	}
	r.status = next
	r.statusChangedAt = now
	return nil
}

// stamp sets a stage timestamp the first time its transition is applied.
// Second legs of shared events (e.g. the delivery-leg dispatch) keep the
// original instant.
func stamp(field **time.Time, now time.Time) {
	if *field == nil {
		t := now
		*field = &t
	}
}

// Accept approves the request and snapshots the tariff so later settings
// changes cannot retroactively alter an in-flight request.
func (r *LaundryRequest) Accept(pricePerKg, minimumCharge kernel.Money, now time.Time) error {
	if err := r.apply(EventAccept, now); err != nil {
		return err
	}
	r.pricePerKg = pricePerKg
	r.minimumCharge = minimumCharge
	stamp(&r.acceptedAt, now)
	return nil
}

// AssignRobot binds a reserved robot and marks the request en route. It
// serves both the pickup leg (Accepted) and the delivery leg
// (FinishedWashing).
func (r *LaundryRequest) AssignRobot(robotName string, now time.Time) error {
	if robotName == "" {
		return ErrRobotNameIsRequired
	}
	if err := r.apply(EventDispatch, now); err != nil {
		return err
	}
	r.robotName = robotName
	stamp(&r.dispatchedAt, now)
	return nil
}

// MatchBeacon binds the room's beacon once it is known. Submission may
// precede beacon matching, so the binding is separate from construction.
func (r *LaundryRequest) MatchBeacon(beaconMac string) error {
	room, err := r.room.WithBeacon(beaconMac)
	if err != nil {
		return err
	}
	r.room = room
	return nil
}

// MarkArrivedAtRoom records that the robot reached the customer's room.
func (r *LaundryRequest) MarkArrivedAtRoom(now time.Time) error {
	if err := r.apply(EventArriveAtRoom, now); err != nil {
		return err
	}
	stamp(&r.arrivedAtRoomAt, now)
	return nil
}

// MarkLoaded records that laundry was placed on the robot.
func (r *LaundryRequest) MarkLoaded(now time.Time) error {
	if err := r.apply(EventLoad, now); err != nil {
		return err
	}
	stamp(&r.loadedAt, now)
	return nil
}

// MarkHandover records that the clean laundry was returned to the customer.
func (r *LaundryRequest) MarkHandover(now time.Time) error {
	return r.apply(EventHandover, now)
}

// MarkReturnedToBase records that the robot crossed the base dock beacon.
func (r *LaundryRequest) MarkReturnedToBase(now time.Time) error {
	if err := r.apply(EventArriveAtBase, now); err != nil {
		return err
	}
	stamp(&r.returnedAt, now)
	return nil
}

// RecordWeight stores the measured weight and computes the total as
// max(weight x pricePerKg, minimumCharge) from the acceptance snapshot.
func (r *LaundryRequest) RecordWeight(kg float64, now time.Time) error {
	if kg <= 0 {
		return ErrWeightIsInvalid
	}
	if r.pricePerKg.IsZero() && r.minimumCharge.IsZero() {
		return ErrTariffNotSnapshotted
	}
	if err := r.apply(EventRecordWeight, now); err != nil {
		return err
	}
	r.weightKg = kg
	r.totalCost = r.pricePerKg.MultiplyWeight(kg).Max(r.minimumCharge)
	stamp(&r.weighedAt, now)
	return nil
}

// RequestPayment asks the customer to pay the computed total.
func (r *LaundryRequest) RequestPayment(now time.Time) error {
	if err := r.apply(EventRequestPayment, now); err != nil {
		return err
	}
	stamp(&r.paymentRequestedAt, now)
	return nil
}

// CompletePayment settles payment with the given method and reference.
// PickupOnly and DeliveryOnly requests complete here; PickupAndDelivery
// continues into the washing branch.
func (r *LaundryRequest) CompletePayment(method, reference, notes string, now time.Time) error {
	if err := r.apply(EventCompletePayment, now); err != nil {
		return err
	}
	r.paymentMethod = method
	r.paymentReference = reference
	r.paymentNotes = notes
	stamp(&r.paymentCompletedAt, now)
	if r.status == Completed {
		stamp(&r.completedAt, now)
		r.robotName = ""
	}
	return nil
}

// FinishWashing marks the wash cycle done.
func (r *LaundryRequest) FinishWashing(now time.Time) error {
	return r.apply(EventFinishWashing, now)
}

// Complete closes a washing-branch request after the robot is back at base.
func (r *LaundryRequest) Complete(now time.Time) error {
	if err := r.apply(EventComplete, now); err != nil {
		return err
	}
	stamp(&r.completedAt, now)
	r.robotName = ""
	return nil
}

// Decline rejects a pending request with a mandatory reason.
func (r *LaundryRequest) Decline(reason string, now time.Time) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := r.apply(EventDecline, now); err != nil {
		return err
	}
	r.declineReason = reason
	return nil
}

// Cancel aborts the request with a mandatory reason and actor. The caller
// (the orchestrator) is responsible for verifying the refund precondition
// when payment was already requested; the aggregate records the outcome.
func (r *LaundryRequest) Cancel(reason, actor string, now time.Time) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := r.apply(EventCancel, now); err != nil {
		return err
	}
	r.cancelReason = reason
	r.cancelActor = actor
	t := now
	r.cancelledAt = &t
	r.robotName = ""
	return nil
}

// RecordRefund attaches the refund decision accompanying a post-payment
// cancellation.
func (r *LaundryRequest) RecordRefund(amount kernel.Money, reason string) {
	r.refundAmount = amount
	r.refundReason = reason
}

// ReleaseRobot drops the robot binding without touching the status, used
// when the timeout supervisor force-releases a stalled robot.
func (r *LaundryRequest) ReleaseRobot() {
	r.robotName = ""
}
