package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/ports"
)

// ReserveOutcome is the result of a reservation attempt. Losing a race is
// a normal outcome, not an error, so it is modeled as a value the caller
// branches on.
type ReserveOutcome int

const (
	// Reserved means the robot was bound to the request.
	Reserved ReserveOutcome = iota + 1

	// AlreadyBusy means another request holds the robot, or it is offline
	// or faulted.
	AlreadyBusy

	// NotActive means the robot is administratively out of service.
	NotActive

	// NotFound means no robot with that name is registered.
	NotFound
)

// String implements fmt.Stringer.
func (o ReserveOutcome) String() string {
	switch o {
	case Reserved:
		return "Reserved"
	case AlreadyBusy:
		return "AlreadyBusy"
	case NotActive:
		return "NotActive"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// slot pairs one robot with its own mutex. Everything that touches the
// robot, including its write-through Save, runs under this lock; a slow
// database round-trip for one robot never blocks the rest of the fleet.
type slot struct {
	mu sync.Mutex
	r  *robot.Robot
}

// Registry is the in-memory authority for live robot state. The lock
// domain is one robot name: each robot lives in its own slot with its own
// mutex, which is what makes TryReserve a single atomic check-and-bind
// for that robot. Two dispatchers racing for the last Available robot get
// exactly one Reserved and one AlreadyBusy; heartbeats for other robots
// proceed untouched. The registry-level mutex only guards slot
// membership and is never held across I/O.
//
// Every mutation is written through to the RobotRepository so bindings
// survive a restart; WarmUp reloads them.
type Registry struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	repo   ports.RobotRepository
	logger *slog.Logger
}

// NewRegistry creates an empty registry backed by the given repository.
func NewRegistry(repo ports.RobotRepository, logger *slog.Logger) *Registry {
	return &Registry{
		slots:  make(map[string]*slot),
		repo:   repo,
		logger: logger.With("component", "registry"),
	}
}

// WarmUp loads every persisted robot into memory. Robots come back with
// their last known status and bindings; the liveness sweep marks the ones
// that stay silent offline.
func (reg *Registry) WarmUp(ctx context.Context) error {
	robots, err := reg.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	reg.mu.Lock()
	for _, r := range robots {
		reg.slots[r.Name()] = &slot{r: r}
	}
	reg.mu.Unlock()

	reg.logger.Info("registry warmed up", "robots", len(robots))
	return nil
}

// slotFor returns the slot for a name, if one exists. The map lock is
// dropped before the caller takes the slot lock.
func (reg *Registry) slotFor(name string) (*slot, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.slots[name]
	return s, ok
}

// snapshotSlots captures the current membership so sweeps and listings
// can walk the fleet without holding the map lock.
func (reg *Registry) snapshotSlots() []*slot {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*slot, 0, len(reg.slots))
	for _, s := range reg.slots {
		out = append(out, s)
	}
	return out
}

// RegisterHeartbeat applies a heartbeat, auto-registering unknown robots.
// Unknown names are trusted because units announce themselves on boot;
// the operator withdraws misbehaving units with SetActive.
func (reg *Registry) RegisterHeartbeat(ctx context.Context, name string, hb robot.Heartbeat, now time.Time) (*robot.Robot, error) {
	reg.mu.Lock()
	s, ok := reg.slots[name]
	if !ok {
		created, err := robot.NewRobot(name)
		if err != nil {
			reg.mu.Unlock()
			return nil, err
		}
		s = &slot{r: created}
		reg.slots[name] = s
		reg.logger.Info("robot registered", "robot", name)
	}
	reg.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.r.ApplyHeartbeat(hb, now)
	if err := reg.persist(ctx, s.r); err != nil {
		return nil, err
	}
	return clone(s.r), nil
}

// TryReserve atomically binds a robot to a request. The check and the
// bind happen under the robot's slot lock, so concurrent attempts for the
// same robot serialize and exactly one wins.
func (reg *Registry) TryReserve(ctx context.Context, robotName string, requestID int64) (ReserveOutcome, error) {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return NotFound, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.r.IsActive() || !s.r.AcceptsRequests() {
		return NotActive, nil
	}

	if err := s.r.Reserve(requestID); err != nil {
		return AlreadyBusy, nil //nolint:nilerr // losing the race is an outcome
	}

	if err := reg.persist(ctx, s.r); err != nil {
		// The bind did not reach storage; undo it so the robot is not
		// stuck half-reserved in memory.
		s.r.Release()
		return 0, err
	}

	reg.logger.Info("robot reserved", "robot", robotName, "request_id", requestID)
	return Reserved, nil
}

// Release unbinds a robot regardless of who holds it. Used on completion,
// cancellation, and supervisor force-release; releasing an unbound robot
// is harmless.
func (reg *Registry) Release(ctx context.Context, robotName string) error {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.r.Release()
	if err := reg.persist(ctx, s.r); err != nil {
		return err
	}
	reg.logger.Info("robot released", "robot", robotName)
	return nil
}

// MarkError records a fault reported by a robot.
func (reg *Registry) MarkError(ctx context.Context, robotName, task string) error {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.r.MarkError(task)
	reg.logger.Warn("robot fault", "robot", robotName, "task", task)
	return reg.persist(ctx, s.r)
}

// SetActive switches a unit in or out of service.
func (reg *Registry) SetActive(ctx context.Context, robotName string, active bool) error {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.r.SetActive(active)
	return reg.persist(ctx, s.r)
}

// SetAcceptsRequests toggles dispatcher eligibility for a unit.
func (reg *Registry) SetAcceptsRequests(ctx context.Context, robotName string, accept bool) error {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.r.SetAcceptsRequests(accept)
	return reg.persist(ctx, s.r)
}

// Get returns a snapshot copy of one robot.
func (reg *Registry) Get(robotName string) (*robot.Robot, bool) {
	s, ok := reg.slotFor(robotName)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.r), true
}

// List returns snapshot copies of the whole fleet. Copies keep callers
// from mutating live state outside the locks.
func (reg *Registry) List() []*robot.Robot {
	slots := reg.snapshotSlots()

	out := make([]*robot.Robot, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		out = append(out, clone(s.r))
		s.mu.Unlock()
	}
	return out
}

// SweepOffline marks robots silent beyond the grace period as offline and
// returns their names. Bound requests stay bound; the timeout supervisor
// decides what happens to them.
func (reg *Registry) SweepOffline(ctx context.Context, grace time.Duration, now time.Time) ([]string, error) {
	var swept []string
	for _, s := range reg.snapshotSlots() {
		s.mu.Lock()
		if s.r.Status() == robot.StatusOffline || now.Sub(s.r.LastSeen()) < grace {
			s.mu.Unlock()
			continue
		}

		s.r.MarkOffline()
		err := reg.persist(ctx, s.r)
		name, lastSeen := s.r.Name(), s.r.LastSeen()
		s.mu.Unlock()
		if err != nil {
			return swept, err
		}

		reg.logger.Warn("robot went offline", "robot", name, "last_seen", lastSeen)
		swept = append(swept, name)
	}
	return swept, nil
}

func (reg *Registry) persist(ctx context.Context, r *robot.Robot) error {
	if err := reg.repo.Save(ctx, r); err != nil {
		reg.logger.Error("robot write-through failed", "robot", r.Name(), "error", err)
		return err
	}
	return nil
}

func clone(r *robot.Robot) *robot.Robot {
	copied, err := robot.Restore(r.ToSnapshot())
	if err != nil {
		// Snapshots of valid robots always restore.
		panic(err)
	}
	return copied
}
