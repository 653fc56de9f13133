package commands_test

import (
	"testing"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/robot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHeartbeatCommandHandler_Handle_RegistersUnknownRobot(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterHeartbeatCommand("washy-3", robot.Heartbeat{
		IP:           "10.0.0.13",
		LinePosition: 0.4,
	}, false)
	require.NoError(t, err)

	fleet := testFleet(t)

	h := commands.NewRegisterHeartbeatCommandHandler(fleet)
	require.NoError(t, h.Handle(ctx, cmd))

	seen, ok := fleet.Get("washy-3")
	require.True(t, ok)
	assert.Equal(t, robot.StatusAvailable, seen.Status())
	assert.Equal(t, "10.0.0.13", seen.IP())
}

func TestRegisterHeartbeatCommandHandler_Handle_FaultedRobot(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterHeartbeatCommand("washy-1", robot.Heartbeat{
		CurrentTask: "navigate:Room 204",
	}, true)
	require.NoError(t, err)

	fleet := testFleet(t, "washy-1")

	h := commands.NewRegisterHeartbeatCommandHandler(fleet)
	require.NoError(t, h.Handle(ctx, cmd))

	faulted, ok := fleet.Get("washy-1")
	require.True(t, ok)
	assert.Equal(t, robot.StatusError, faulted.Status())
	assert.False(t, faulted.CanBeReserved())
}

func TestRegisterHeartbeatCommand_Validation(t *testing.T) {
	_, err := commands.NewRegisterHeartbeatCommand("", robot.Heartbeat{}, false)
	require.ErrorIs(t, err, commands.ErrRobotNameIsRequired)

	var zero commands.RegisterHeartbeatCommand
	require.Error(t, zero.Validate())
}
