package commands_test

import (
	"testing"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordPaymentCommandHandler_Handle_PickupOnlyCompletes(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRecordPaymentCommand(42, "cash", "", "paid at the desk")
	require.NoError(t, err)

	invoiced := requestInStatus(t, 42, request.PickupOnly, request.PaymentPending)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(invoiced, nil).Once()
	requestRepo.On("Update", mock.Anything, invoiced).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationRequestCompleted
	})).Return(nil).Once()

	h := commands.NewRecordPaymentCommandHandler(factory, newLocks(), notifier, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, request.Completed, invoiced.Status())
	assert.Equal(t, "cash", invoiced.PaymentMethod())
	notifier.AssertExpectations(t)
}

func TestRecordPaymentCommandHandler_Handle_FullServiceContinuesToWashing(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRecordPaymentCommand(42, "card", "txn-0017", "")
	require.NoError(t, err)

	invoiced := requestInStatus(t, 42, request.PickupAndDelivery, request.PaymentPending)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(invoiced, nil).Once()
	requestRepo.On("Update", mock.Anything, invoiced).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	h := commands.NewRecordPaymentCommandHandler(factory, newLocks(), notifier, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	// The wash is still ahead; completion comes after delivery.
	assert.Equal(t, request.Washing, invoiced.Status())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestRecordPaymentCommandHandler_Handle_NotInvoicedYet(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRecordPaymentCommand(42, "cash", "", "")
	require.NoError(t, err)

	weighed := requestInStatus(t, 42, request.PickupOnly, request.WeighingComplete)

	requestRepo := new(MockRequestRepository)
	uow := new(MockRequestUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", mock.Anything, int64(42)).Return(weighed, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRequestUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecordPaymentCommandHandler(factory, newLocks(), new(MockNotifier), testLogger())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, request.ErrInvalidTransition)
}

func TestRecordPaymentCommand_Validation(t *testing.T) {
	_, err := commands.NewRecordPaymentCommand(42, "", "", "")
	require.ErrorIs(t, err, commands.ErrPaymentMethodIsRequired)

	_, err = commands.NewRecordPaymentCommand(0, "cash", "", "")
	require.ErrorIs(t, err, commands.ErrRequestIDIsRequired)
}
