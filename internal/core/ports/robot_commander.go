package ports

import "context"

// RobotCommander sends commands to robots over the fleet message bus.
// Delivery is at most once from the orchestrator's point of view; a robot
// that never confirms a task is caught by the timeout supervisor, not by
// the transport.
type RobotCommander interface {
	// NavigateTo orders a robot to drive to a room.
	NavigateTo(ctx context.Context, robotName, roomName string) error

	// Recall orders a robot back to the base dock.
	Recall(ctx context.Context, robotName string) error
}
