package commands_test

import (
	"testing"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptRequestCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAcceptRequestCommand(42, 1500, 5000)
	require.NoError(t, err)

	pending := pendingRequest(t, 42, request.PickupOnly)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		requestRepo.On("Get", mock.Anything, int64(42)).Return(pending, nil).Once(),
		requestRepo.On("Update", mock.Anything, pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationRequestAccepted && n.RequestID == 42
	})).Return(nil).Once()

	h := commands.NewAcceptRequestCommandHandler(factory, newLocks(), notifier, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, request.Accepted, pending.Status())
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAcceptRequestCommandHandler_Handle_NotificationFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAcceptRequestCommand(42, 1500, 5000)
	require.NoError(t, err)

	pending := pendingRequest(t, 42, request.PickupOnly)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(pending, nil).Once()
	requestRepo.On("Update", mock.Anything, pending).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(errs.NewValueIsInvalidError("subscription")).Once()

	h := commands.NewAcceptRequestCommandHandler(factory, newLocks(), notifier, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, request.Accepted, pending.Status())
}

func TestAcceptRequestCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAcceptRequestCommand(42, 1500, 5000)
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).
		Return(nil, errs.NewObjectNotFoundError("request", int64(42))).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptRequestCommandHandler(factory, newLocks(), new(MockNotifier), testLogger())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAcceptRequestCommand_Validation(t *testing.T) {
	_, err := commands.NewAcceptRequestCommand(0, 1500, 5000)
	require.ErrorIs(t, err, commands.ErrRequestIDIsRequired)

	_, err = commands.NewAcceptRequestCommand(42, -1, 5000)
	require.Error(t, err)

	_, err = commands.NewAcceptRequestCommand(42, 1500, -1)
	require.Error(t, err)

	var zero commands.AcceptRequestCommand
	require.Error(t, zero.Validate())
}
