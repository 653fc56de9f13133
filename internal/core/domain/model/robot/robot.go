package robot

import (
	"errors"
	"time"

	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when creating a robot without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")

	// ErrRobotIsNotConstructed is returned when using an improperly
	// initialized Robot.
	ErrRobotIsNotConstructed = errors.New("Robot must be created via NewRobot constructor")

	// ErrNotReservable is returned by Reserve when the robot is busy,
	// offline, faulted, or administratively withdrawn.
	ErrNotReservable = errors.New("robot is not reservable")

	// ErrNotBound is returned when an operation expects a bound request and
	// the robot has none.
	ErrNotBound = errors.New("robot is not bound to a request")
)

// Robot is the aggregate for one physical unit in the fleet. Its identity
// is the name the robot announces in its heartbeats; units are flashed with
// a unique name before joining the floor, so no surrogate id is needed.
//
// The aggregate holds two kinds of state. Administrative state (active,
// canAcceptRequests) is set by operators and persisted. Live state
// (task, line position, ip, last seen) is overwritten by every heartbeat
// and is only ever a snapshot of the last report.
type Robot struct {
	name string

	status         Status
	active         bool
	acceptRequests bool

	// boundRequestID links the robot to the request it is serving. It is
	// set atomically with the Available to Dispatching move and cleared on
	// release, so a robot can never serve two requests.
	boundRequestID *int64

	currentTask   string
	lastBeaconMac string
	linePosition  float64
	ip            string
	lastSeen      time.Time

	// idleSince is when the robot last became Available. The dispatcher
	// prefers the most recently idled unit, so the fleet rotates through
	// robots instead of grinding down whichever sorts first.
	idleSince time.Time

	guard guard.ConstructorGuard
}

// Heartbeat is the live telemetry a robot reports. Fields mirror what the
// firmware sends: the task it believes it is running, the line follower's
// last position reading, the address it can be reached at.
type Heartbeat struct {
	CurrentTask   string
	LastBeaconMac string
	LinePosition  float64
	IP            string
}

// NewRobot registers a new unit. Robots join Offline and become Available
// on their first heartbeat; a freshly flashed robot that never phones home
// must not be reservable.
func NewRobot(name string) (*Robot, error) {
	r := &Robot{
		guard: guard.NewConstructorGuard(),
	}

	if err := r.setName(name); err != nil {
		return nil, err
	}

	r.status = StatusOffline
	r.active = true
	r.acceptRequests = true
	return r, nil
}

// Snapshot is the persisted form of a Robot.
type Snapshot struct {
	Name           string
	Status         Status
	Active         bool
	AcceptRequests bool
	BoundRequestID *int64
	CurrentTask    string
	LastBeaconMac  string
	LinePosition   float64
	IP             string
	LastSeen       time.Time
	IdleSince      time.Time
}

// Restore reconstructs a Robot from persistent storage.
func Restore(s Snapshot) (*Robot, error) {
	r := &Robot{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setName(s.Name),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	r.status = s.Status
	r.active = s.Active
	r.acceptRequests = s.AcceptRequests
	r.boundRequestID = s.BoundRequestID
	r.currentTask = s.CurrentTask
	r.lastBeaconMac = s.LastBeaconMac
	r.linePosition = s.LinePosition
	r.ip = s.IP
	r.lastSeen = s.LastSeen
	r.idleSince = s.IdleSince
	return r, nil
}

// ToSnapshot flattens the aggregate for persistence.
func (r *Robot) ToSnapshot() Snapshot {
	return Snapshot{
		Name:           r.name,
		Status:         r.status,
		Active:         r.active,
		AcceptRequests: r.acceptRequests,
		BoundRequestID: r.boundRequestID,
		CurrentTask:    r.currentTask,
		LastBeaconMac:  r.lastBeaconMac,
		LinePosition:   r.linePosition,
		IP:             r.ip,
		LastSeen:       r.lastSeen,
		IdleSince:      r.idleSince,
	}
}

// Validate checks that the Robot was created through a constructor.
func (r *Robot) Validate() error {
	if r == nil {
		return ErrRobotIsNotConstructed
	}
	return r.guard.Validate(ErrRobotIsNotConstructed)
}

// Name returns the robot's identity.
func (r *Robot) Name() string { return r.name }

// Status returns the fleet-side status.
func (r *Robot) Status() Status { return r.status }

// IsActive reports whether the unit is administratively in service.
func (r *Robot) IsActive() bool { return r.active }

// AcceptsRequests reports whether the dispatcher may pick this unit.
func (r *Robot) AcceptsRequests() bool { return r.acceptRequests }

// BoundRequestID returns the id of the request the robot serves, or nil.
func (r *Robot) BoundRequestID() *int64 {
	if r.boundRequestID == nil {
		return nil
	}
	id := *r.boundRequestID
	return &id
}

// CurrentTask returns the task string from the last heartbeat.
func (r *Robot) CurrentTask() string { return r.currentTask }

// LastBeaconMac returns the last beacon the robot reported passing.
func (r *Robot) LastBeaconMac() string { return r.lastBeaconMac }

// LinePosition returns the line follower's last position reading.
func (r *Robot) LinePosition() float64 { return r.linePosition }

// IP returns the address from the last heartbeat.
func (r *Robot) IP() string { return r.ip }

// LastSeen returns when the last heartbeat arrived.
func (r *Robot) LastSeen() time.Time { return r.lastSeen }

// IdleSince returns when the robot last became Available. Zero for a
// robot that has never been idle.
func (r *Robot) IdleSince() time.Time { return r.idleSince }

// IsEqual compares robots by name.
func (r *Robot) IsEqual(other *Robot) bool {
	if other == nil {
		return false
	}
	return r.name == other.name
}

// CanBeReserved reports whether Reserve would succeed right now.
func (r *Robot) CanBeReserved() bool {
	return r.status == StatusAvailable &&
		r.active &&
		r.acceptRequests &&
		r.boundRequestID == nil
}

// Reserve binds the robot to a request and moves it to Dispatching. The
// caller must hold the registry's lock for this robot, making the check
// and the bind a single atomic step.
func (r *Robot) Reserve(requestID int64) error {
	if !r.CanBeReserved() {
		return ErrNotReservable
	}
	r.status = StatusDispatching
	id := requestID
	r.boundRequestID = &id
	return nil
}

// Release drops the request binding. An online robot goes back to
// Available; an offline or faulted one keeps its status so it is not
// reserved again before recovering.
func (r *Robot) Release() {
	r.boundRequestID = nil
	if r.status == StatusDispatching || r.status == StatusBusy {
		r.status = StatusAvailable
		r.idleSince = time.Now()
	}
}

// ApplyHeartbeat overwrites the live fields and revives an offline robot.
// A bound robot reporting a task moves from Dispatching to Busy, which is
// how the dispatcher learns the navigation command was taken. A withdrawn
// unit stays Offline until the operator reactivates it; its telemetry
// still updates so the fleet view shows it phoning home.
func (r *Robot) ApplyHeartbeat(hb Heartbeat, now time.Time) {
	r.currentTask = hb.CurrentTask
	if hb.LastBeaconMac != "" {
		r.lastBeaconMac = hb.LastBeaconMac
	}
	r.linePosition = hb.LinePosition
	if hb.IP != "" {
		r.ip = hb.IP
	}
	r.lastSeen = now

	switch {
	case r.status == StatusOffline && r.boundRequestID != nil:
		r.status = StatusBusy
	case r.status == StatusOffline && r.active:
		r.status = StatusAvailable
		r.idleSince = now
	case r.status == StatusDispatching && hb.CurrentTask != "":
		r.status = StatusBusy
	}
}

// MarkOffline is applied by the liveness sweep when the heartbeat grace
// elapses. The request binding survives; the timeout supervisor decides
// whether to force-release it.
func (r *Robot) MarkOffline() {
	r.status = StatusOffline
}

// MarkError records a fault reported by the robot.
func (r *Robot) MarkError(task string) {
	r.status = StatusError
	if task != "" {
		r.currentTask = task
	}
}

// SetActive switches the unit in or out of service. Deactivating does not
// interrupt a bound request; it only stops new reservations.
func (r *Robot) SetActive(active bool) {
	r.active = active
}

// SetAcceptsRequests toggles dispatcher eligibility without taking the
// unit out of service.
func (r *Robot) SetAcceptsRequests(accept bool) {
	r.acceptRequests = accept
}

func (r *Robot) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}
