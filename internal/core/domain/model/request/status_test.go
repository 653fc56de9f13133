package request_test

import (
	"testing"

	"laundrybot/internal/core/domain/model/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", request.Pending.String())
	assert.Equal(t, "FinishedWashingAwaitingPickup", request.FinishedWashingAwaitingPickup.String())
	assert.Equal(t, "Unknown", request.Unknown.String())
	assert.Equal(t, "Unknown", request.Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round trips every named status", func(t *testing.T) {
		for _, s := range []request.Status{
			request.Pending, request.Accepted, request.RobotEnRoute,
			request.ArrivedAtRoom, request.LaundryLoaded, request.ReturnedToBase,
			request.WeighingComplete, request.PaymentPending, request.Washing,
			request.FinishedWashing, request.FinishedWashingGoingToRoom,
			request.FinishedWashingArrivedAtRoom, request.FinishedWashingGoingToBase,
			request.FinishedWashingAwaitingPickup, request.Completed,
			request.Declined, request.Cancelled,
		} {
			parsed, err := request.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		_, err := request.StatusFromString("Teleporting")
		require.Error(t, err)

		_, err = request.StatusFromString("Unknown")
		require.Error(t, err)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, request.Washing.Validate())
	require.Error(t, request.Unknown.Validate())
	require.Error(t, request.Status(99).Validate())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, request.Completed.IsTerminal())
	assert.True(t, request.Declined.IsTerminal())
	assert.True(t, request.Cancelled.IsTerminal())

	assert.False(t, request.Pending.IsTerminal())
	assert.False(t, request.PaymentPending.IsTerminal())
	assert.False(t, request.FinishedWashingAwaitingPickup.IsTerminal())
}

func TestFlow_Parse(t *testing.T) {
	f, err := request.FlowFromString("PickupAndDelivery")
	require.NoError(t, err)
	assert.Equal(t, request.PickupAndDelivery, f)
	assert.True(t, f.TakesWashingBranch())

	f, err = request.FlowFromString("PickupOnly")
	require.NoError(t, err)
	assert.False(t, f.TakesWashingBranch())

	_, err = request.FlowFromString("DryCleaning")
	require.Error(t, err)

	require.Error(t, request.FlowUnknown.Validate())
}
