package request_test

import (
	"testing"

	"laundrybot/internal/core/domain/model/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, current request.Status, e request.Event, flow request.Flow) request.Status {
	t.Helper()
	got, err := request.Next(current, e, flow)
	require.NoError(t, err)
	return got
}

func TestNext_MainChain(t *testing.T) {
	flow := request.PickupOnly

	s := next(t, request.Pending, request.EventAccept, flow)
	assert.Equal(t, request.Accepted, s)

	s = next(t, s, request.EventDispatch, flow)
	assert.Equal(t, request.RobotEnRoute, s)

	s = next(t, s, request.EventArriveAtRoom, flow)
	assert.Equal(t, request.ArrivedAtRoom, s)

	s = next(t, s, request.EventLoad, flow)
	assert.Equal(t, request.LaundryLoaded, s)

	s = next(t, s, request.EventArriveAtBase, flow)
	assert.Equal(t, request.ReturnedToBase, s)

	s = next(t, s, request.EventRecordWeight, flow)
	assert.Equal(t, request.WeighingComplete, s)

	s = next(t, s, request.EventRequestPayment, flow)
	assert.Equal(t, request.PaymentPending, s)

	s = next(t, s, request.EventCompletePayment, flow)
	assert.Equal(t, request.Completed, s)
}

func TestNext_WashingBranch(t *testing.T) {
	flow := request.PickupAndDelivery

	s := next(t, request.PaymentPending, request.EventCompletePayment, flow)
	assert.Equal(t, request.Washing, s)

	s = next(t, s, request.EventFinishWashing, flow)
	assert.Equal(t, request.FinishedWashing, s)

	s = next(t, s, request.EventDispatch, flow)
	assert.Equal(t, request.FinishedWashingGoingToRoom, s)

	s = next(t, s, request.EventArriveAtRoom, flow)
	assert.Equal(t, request.FinishedWashingArrivedAtRoom, s)

	s = next(t, s, request.EventHandover, flow)
	assert.Equal(t, request.FinishedWashingGoingToBase, s)

	s = next(t, s, request.EventArriveAtBase, flow)
	assert.Equal(t, request.FinishedWashingAwaitingPickup, s)

	s = next(t, s, request.EventComplete, flow)
	assert.Equal(t, request.Completed, s)
}

func TestNext_Decline(t *testing.T) {
	s := next(t, request.Pending, request.EventDecline, request.PickupOnly)
	assert.Equal(t, request.Declined, s)

	_, err := request.Next(request.Accepted, request.EventDecline, request.PickupOnly)
	require.ErrorIs(t, err, request.ErrInvalidTransition)
}

func TestNext_Cancel(t *testing.T) {
	t.Run("valid from every non-terminal status", func(t *testing.T) {
		for _, current := range []request.Status{
			request.Pending, request.Accepted, request.RobotEnRoute,
			request.ArrivedAtRoom, request.LaundryLoaded, request.ReturnedToBase,
			request.WeighingComplete, request.PaymentPending, request.Washing,
			request.FinishedWashing, request.FinishedWashingGoingToRoom,
			request.FinishedWashingArrivedAtRoom, request.FinishedWashingGoingToBase,
			request.FinishedWashingAwaitingPickup,
		} {
			s := next(t, current, request.EventCancel, request.PickupAndDelivery)
			assert.Equal(t, request.Cancelled, s)
		}
	})

	t.Run("rejected from terminal statuses", func(t *testing.T) {
		for _, current := range []request.Status{
			request.Completed, request.Declined,
		} {
			_, err := request.Next(current, request.EventCancel, request.PickupOnly)
			require.ErrorIs(t, err, request.ErrInvalidTransition)
		}
	})

	t.Run("replay on a cancelled request is already-in-state", func(t *testing.T) {
		_, err := request.Next(request.Cancelled, request.EventCancel, request.PickupOnly)
		require.ErrorIs(t, err, request.ErrAlreadyInState)
	})
}

func TestNext_InvalidPairs(t *testing.T) {
	cases := []struct {
		current request.Status
		event   request.Event
	}{
		{request.Pending, request.EventDispatch},
		{request.Accepted, request.EventLoad},
		{request.RobotEnRoute, request.EventRecordWeight},
		{request.Washing, request.EventDispatch},
		{request.Completed, request.EventAccept},
	}
	for _, tc := range cases {
		_, err := request.Next(tc.current, tc.event, request.PickupAndDelivery)
		require.ErrorIs(t, err, request.ErrInvalidTransition,
			"event %s from %s", tc.event, tc.current)
	}
}

func TestNext_IdempotentReplay(t *testing.T) {
	t.Run("beacon replay after arrival", func(t *testing.T) {
		got, err := request.Next(request.ArrivedAtRoom, request.EventArriveAtRoom, request.PickupOnly)
		require.ErrorIs(t, err, request.ErrAlreadyInState)
		assert.Equal(t, request.ArrivedAtRoom, got)
	})

	t.Run("base beacon replay after return", func(t *testing.T) {
		_, err := request.Next(request.ReturnedToBase, request.EventArriveAtBase, request.PickupOnly)
		require.ErrorIs(t, err, request.ErrAlreadyInState)
	})

	t.Run("payment replay respects the flow's target", func(t *testing.T) {
		_, err := request.Next(request.Washing, request.EventCompletePayment, request.PickupAndDelivery)
		require.ErrorIs(t, err, request.ErrAlreadyInState)

		_, err = request.Next(request.Completed, request.EventCompletePayment, request.PickupOnly)
		require.ErrorIs(t, err, request.ErrAlreadyInState)
	})
}

func TestNext_RejectsInvalidInputs(t *testing.T) {
	_, err := request.Next(request.Unknown, request.EventAccept, request.PickupOnly)
	require.Error(t, err)

	_, err = request.Next(request.Pending, request.EventAccept, request.FlowUnknown)
	require.Error(t, err)
}
