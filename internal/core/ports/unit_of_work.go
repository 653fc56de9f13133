package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork per command. Each command
// runs in its own transaction so concurrent operations stay isolated.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Client code manages the
// transaction lifecycle explicitly: Begin, then Commit or Rollback.
// Rollback after a successful Commit is a no-op, which allows the usual
// defer uow.Rollback pattern.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction if one is still open.
	Rollback(ctx context.Context) error

	// RequestRepository returns a repository bound to the transaction.
	RequestRepository() RequestRepository

	// RobotRepository returns a repository bound to the transaction.
	RobotRepository() RobotRepository

	// BeaconRepository returns a repository bound to the transaction.
	BeaconRepository() BeaconRepository

	// AdjustmentRepository returns a repository bound to the transaction.
	AdjustmentRepository() AdjustmentRepository
}
