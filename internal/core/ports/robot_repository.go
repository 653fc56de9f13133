package ports

import (
	"context"

	"laundrybot/internal/core/domain/model/robot"
)

// RobotRepository defines the persistence contract for robot snapshots.
//
// The in-memory registry is the authority for live robot state; the
// repository is its write-through backing store so the fleet survives a
// restart with bindings intact.
type RobotRepository interface {
	// Save upserts a robot snapshot by name.
	Save(ctx context.Context, aggregate *robot.Robot) error

	// Get retrieves a robot by name. Returns errs.ObjectNotFoundError when
	// no such robot exists.
	Get(ctx context.Context, name string) (*robot.Robot, error)

	// GetAll retrieves every registered robot, used to warm the registry
	// at startup.
	GetAll(ctx context.Context) ([]*robot.Robot, error)
}
