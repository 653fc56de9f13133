package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/beacon"
	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/locker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) Add(ctx context.Context, aggregate *request.LaundryRequest) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}
func (m *MockRequestRepository) Update(ctx context.Context, aggregate *request.LaundryRequest) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}
func (m *MockRequestRepository) Get(ctx context.Context, id int64) (*request.LaundryRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.LaundryRequest), args.Error(1)
}
func (m *MockRequestRepository) GetActiveByCustomer(ctx context.Context, customerID string) (*request.LaundryRequest, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.LaundryRequest), args.Error(1)
}
func (m *MockRequestRepository) GetAllActive(ctx context.Context) ([]*request.LaundryRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.LaundryRequest), args.Error(1)
}
func (m *MockRequestRepository) GetAllByCustomer(ctx context.Context, customerID string) ([]*request.LaundryRequest, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.LaundryRequest), args.Error(1)
}

type MockBeaconRepository struct{ mock.Mock }

func (m *MockBeaconRepository) Save(ctx context.Context, aggregate *beacon.Beacon) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}
func (m *MockBeaconRepository) GetByMac(ctx context.Context, mac string) (*beacon.Beacon, error) {
	args := m.Called(ctx, mac)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*beacon.Beacon), args.Error(1)
}
func (m *MockBeaconRepository) GetByRoom(ctx context.Context, roomName string) (*beacon.Beacon, error) {
	args := m.Called(ctx, roomName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*beacon.Beacon), args.Error(1)
}
func (m *MockBeaconRepository) GetAll(ctx context.Context) ([]*beacon.Beacon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*beacon.Beacon), args.Error(1)
}

type MockAdjustmentRepository struct{ mock.Mock }

func (m *MockAdjustmentRepository) Add(ctx context.Context, entry *payment.Adjustment) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAdjustmentRepository) GetByRequest(ctx context.Context, requestID int64) ([]*payment.Adjustment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Adjustment), args.Error(1)
}

type MockRequestUoW struct{ mock.Mock }

func (m *MockRequestUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRequestUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRequestUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRequestUoW) RequestRepository() ports.RequestRepository {
	args := m.Called()
	return args.Get(0).(ports.RequestRepository)
}

type MockRequestUoWFactory struct{ mock.Mock }

func (m *MockRequestUoWFactory) Create() commands.RequestUoW {
	args := m.Called()
	return args.Get(0).(commands.RequestUoW)
}

type MockSubmitUoW struct{ MockRequestUoW }

func (m *MockSubmitUoW) BeaconRepository() ports.BeaconRepository {
	args := m.Called()
	return args.Get(0).(ports.BeaconRepository)
}

type MockSubmitUoWFactory struct{ mock.Mock }

func (m *MockSubmitUoWFactory) Create() commands.SubmitUoW {
	args := m.Called()
	return args.Get(0).(commands.SubmitUoW)
}

type MockLedgerUoW struct{ MockRequestUoW }

func (m *MockLedgerUoW) AdjustmentRepository() ports.AdjustmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AdjustmentRepository)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

type MockRobotCommander struct{ mock.Mock }

func (m *MockRobotCommander) NavigateTo(ctx context.Context, robotName, roomName string) error {
	args := m.Called(ctx, robotName, roomName)
	return args.Error(0)
}
func (m *MockRobotCommander) Recall(ctx context.Context, robotName string) error {
	args := m.Called(ctx, robotName)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// memRobotRepository backs the registry in handler tests.
type memRobotRepository struct {
	mu    sync.Mutex
	saved map[string]robot.Snapshot
}

func newMemRobotRepository() *memRobotRepository {
	return &memRobotRepository{saved: make(map[string]robot.Snapshot)}
}

func (s *memRobotRepository) Save(_ context.Context, aggregate *robot.Robot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[aggregate.Name()] = aggregate.ToSnapshot()
	return nil
}
func (s *memRobotRepository) Get(_ context.Context, name string) (*robot.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.saved[name]
	if !ok {
		return nil, errs.NewObjectNotFoundError("robot", name)
	}
	return robot.Restore(snap)
}
func (s *memRobotRepository) GetAll(_ context.Context) ([]*robot.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*robot.Robot, 0, len(s.saved))
	for _, snap := range s.saved {
		r, err := robot.Restore(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testFleet(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	fleet := registry.NewRegistry(newMemRobotRepository(), testLogger())
	for _, name := range names {
		_, err := fleet.RegisterHeartbeat(t.Context(), name, robot.Heartbeat{}, time.Now())
		require.NoError(t, err)
	}
	return fleet
}

// pendingRequest builds a Pending aggregate with the given id, bypassing
// the repository the way a Get would return it.
func pendingRequest(t *testing.T, id int64, flow request.Flow) *request.LaundryRequest {
	t.Helper()
	snap := request.Snapshot{
		ID:              id,
		CustomerID:      "cust-1",
		CustomerName:    "Dana",
		Flow:            flow,
		Status:          request.Pending,
		RoomName:        "Room 204",
		BeaconMac:       "AA:BB:CC:DD:EE:FF",
		RequestedAt:     time.Now(),
		StatusChangedAt: time.Now(),
	}
	aggregate, err := request.Restore(snap)
	require.NoError(t, err)
	return aggregate
}

// requestInStatus drives a Pending aggregate to the wanted status through
// its lifecycle methods.
func requestInStatus(t *testing.T, id int64, flow request.Flow, status request.Status) *request.LaundryRequest {
	t.Helper()
	aggregate := pendingRequest(t, id, flow)
	now := time.Now()

	advance := func(fn func() error) {
		if aggregate.Status() == status {
			return
		}
		require.NoError(t, fn())
	}

	advance(func() error {
		perKg, err := kernel.NewMoneyFromCents(1500)
		if err != nil {
			return err
		}
		minCharge, err := kernel.NewMoneyFromCents(5000)
		if err != nil {
			return err
		}
		return aggregate.Accept(perKg, minCharge, now)
	})
	advance(func() error { return aggregate.AssignRobot("washy-1", now) })
	advance(func() error { return aggregate.MarkArrivedAtRoom(now) })
	advance(func() error { return aggregate.MarkLoaded(now) })
	advance(func() error { return aggregate.MarkReturnedToBase(now) })
	advance(func() error { return aggregate.RecordWeight(4.0, now) })
	advance(func() error { return aggregate.RequestPayment(now) })
	advance(func() error { return aggregate.CompletePayment("cash", "", "", now) })
	advance(func() error { return aggregate.FinishWashing(now) })
	advance(func() error { return aggregate.AssignRobot("washy-1", now) })
	advance(func() error { return aggregate.MarkArrivedAtRoom(now) })
	advance(func() error { return aggregate.MarkHandover(now) })
	advance(func() error { return aggregate.MarkReturnedToBase(now) })

	require.Equal(t, status, aggregate.Status(), "could not drive aggregate to %s", status)
	return aggregate
}

func newLocks() *locker.KeyedLocker {
	return locker.NewKeyedLocker()
}
