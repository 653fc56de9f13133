package commands_test

import (
	"testing"
	"time"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/domain/services"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// staleRequest restores an aggregate whose stage timestamp is age in the
// past, the shape a supervisor scan finds after a restart.
func staleRequest(t *testing.T, id int64, status request.Status, age time.Duration, robotName string) *request.LaundryRequest {
	t.Helper()
	changed := time.Now().Add(-age)
	aggregate, err := request.Restore(request.Snapshot{
		ID:              id,
		CustomerID:      "cust-1",
		CustomerName:    "Dana",
		Flow:            request.PickupOnly,
		Status:          status,
		RoomName:        "Room 204",
		BeaconMac:       "AA:BB:CC:DD:EE:FF",
		RobotName:       robotName,
		RequestedAt:     changed.Add(-time.Hour),
		StatusChangedAt: changed,
	})
	require.NoError(t, err)
	return aggregate
}

func TestSuperviseTimeoutsCommandHandler_Handle_Escalates(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSuperviseTimeoutsCommand()

	// 30m in RobotEnRoute against a 15m rule.
	stalled := staleRequest(t, 42, request.RobotEnRoute, 30*time.Minute, "washy-1")
	fresh := staleRequest(t, 43, request.RobotEnRoute, time.Minute, "washy-2")

	requestRepo := new(MockRequestRepository)
	requestRepo.On("GetAllActive", mock.Anything).
		Return([]*request.LaundryRequest{stalled, fresh}, nil).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(stalled, nil).Once()

	scanUoW := new(MockRequestUoW)
	scanUoW.On("Begin", ctx).Return(nil)
	scanUoW.On("RequestRepository").Return(requestRepo)
	scanUoW.On("Rollback", ctx).Return(nil)

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(scanUoW).Twice()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationStageTimedOut && n.RequestID == 42
	})).Return(nil).Once()

	h := commands.NewSuperviseTimeoutsCommandHandler(
		factory, newLocks(), testFleet(t), new(MockRobotCommander), notifier,
		services.DefaultTimeoutPolicy(), testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	// Escalation never touches the request itself.
	assert.Equal(t, request.RobotEnRoute, stalled.Status())
	requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestSuperviseTimeoutsCommandHandler_Handle_CancelAction(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSuperviseTimeoutsCommand()

	policy, err := services.ParseTimeoutPolicy([]byte(`
stages:
  - status: RobotEnRoute
    timeout: 15m
    action: cancel
`))
	require.NoError(t, err)

	stalled := staleRequest(t, 42, request.RobotEnRoute, time.Hour, "washy-1")
	fleet := boundFleet(t, "washy-1", 42)

	requestRepo := new(MockRequestRepository)
	requestRepo.On("GetAllActive", mock.Anything).
		Return([]*request.LaundryRequest{stalled}, nil).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(stalled, nil).Once()
	requestRepo.On("Update", mock.Anything, stalled).Return(nil).Once()

	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("RequestRepository").Return(requestRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Twice()

	commander := new(MockRobotCommander)
	commander.On("Recall", mock.Anything, "washy-1").Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	h := commands.NewSuperviseTimeoutsCommandHandler(
		factory, newLocks(), fleet, commander, notifier, policy, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, request.Cancelled, stalled.Status())

	released, ok := fleet.Get("washy-1")
	require.True(t, ok)
	assert.True(t, released.CanBeReserved(), "stalled robot is force-released")
	commander.AssertExpectations(t)
}

func TestSuperviseTimeoutsCommandHandler_Handle_StalledRobotReleased(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSuperviseTimeoutsCommand()

	// The request is on schedule; the robot it is bound to has been silent
	// for an hour, well past the 30m reservation ceiling. A second bound
	// robot heartbeating normally must stay bound.
	onSchedule := staleRequest(t, 42, request.RobotEnRoute, time.Minute, "washy-1")
	other := staleRequest(t, 43, request.RobotEnRoute, time.Minute, "washy-2")

	fleet := testFleet(t)
	_, err := fleet.RegisterHeartbeat(ctx, "washy-1", robot.Heartbeat{}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	outcome, err := fleet.TryReserve(ctx, "washy-1", 42)
	require.NoError(t, err)
	require.Equal(t, registry.Reserved, outcome)

	_, err = fleet.RegisterHeartbeat(ctx, "washy-2", robot.Heartbeat{}, time.Now())
	require.NoError(t, err)
	outcome, err = fleet.TryReserve(ctx, "washy-2", 43)
	require.NoError(t, err)
	require.Equal(t, registry.Reserved, outcome)

	requestRepo := new(MockRequestRepository)
	requestRepo.On("GetAllActive", mock.Anything).
		Return([]*request.LaundryRequest{onSchedule, other}, nil).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(onSchedule, nil).Once()

	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("RequestRepository").Return(requestRepo)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Twice()

	commander := new(MockRobotCommander)
	commander.On("Recall", mock.Anything, "washy-1").Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationStageTimedOut && n.RequestID == 42
	})).Return(nil).Once()

	h := commands.NewSuperviseTimeoutsCommandHandler(
		factory, newLocks(), fleet, commander, notifier,
		services.DefaultTimeoutPolicy(), testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	// The silent unit is unbound and back in the pool for redispatch.
	released, ok := fleet.Get("washy-1")
	require.True(t, ok)
	assert.Nil(t, released.BoundRequestID())
	assert.True(t, released.CanBeReserved())

	// The healthy unit keeps working.
	working, ok := fleet.Get("washy-2")
	require.True(t, ok)
	require.NotNil(t, working.BoundRequestID())
	assert.Equal(t, int64(43), *working.BoundRequestID())

	// The request stays in its stage; the operator decides what happens.
	assert.Equal(t, request.RobotEnRoute, onSchedule.Status())
	commander.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSuperviseTimeoutsCommandHandler_Handle_StaleScanResult(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSuperviseTimeoutsCommand()

	// Overdue at scan time, but by the time the lock is taken the request
	// has moved to a stage without a rule.
	stalled := staleRequest(t, 42, request.RobotEnRoute, time.Hour, "washy-1")
	movedOn := staleRequest(t, 42, request.ArrivedAtRoom, time.Minute, "washy-1")

	requestRepo := new(MockRequestRepository)
	requestRepo.On("GetAllActive", mock.Anything).
		Return([]*request.LaundryRequest{stalled}, nil).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(movedOn, nil).Once()

	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("RequestRepository").Return(requestRepo)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Twice()

	notifier := new(MockNotifier)

	h := commands.NewSuperviseTimeoutsCommandHandler(
		factory, newLocks(), testFleet(t), new(MockRobotCommander), notifier,
		services.DefaultTimeoutPolicy(), testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
