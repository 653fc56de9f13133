// Package postgres implements the unit of work over GORM transactions.
// Each command handler creates one unit of work, so every business
// operation runs in its own transaction.
package postgres

import (
	"context"

	"laundrybot/internal/adapters/out/postgres/adjustmentrepo"
	"laundrybot/internal/adapters/out/postgres/beaconrepo"
	"laundrybot/internal/adapters/out/postgres/requestrepo"
	"laundrybot/internal/adapters/out/postgres/robotrepo"
	"laundrybot/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates a fresh unit of work per business
// operation, keeping concurrent transactions isolated.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to a database handle.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for Begin.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork is a transaction boundary over GORM. Repositories
// obtained from it run inside the open transaction; Rollback after a
// successful Commit is a no-op, which supports the usual defer pattern.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a transaction. Calling Begin again on an open unit of
// work is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit finalizes the transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction if one is still open.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) handle() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// RequestRepository returns a request repository bound to the transaction.
func (uow *GormUnitOfWork) RequestRepository() ports.RequestRepository {
	return requestrepo.NewGormRequestRepository(uow.handle())
}

// RobotRepository returns a robot repository bound to the transaction.
func (uow *GormUnitOfWork) RobotRepository() ports.RobotRepository {
	return robotrepo.NewGormRobotRepository(uow.handle())
}

// BeaconRepository returns a beacon repository bound to the transaction.
func (uow *GormUnitOfWork) BeaconRepository() ports.BeaconRepository {
	return beaconrepo.NewGormBeaconRepository(uow.handle())
}

// AdjustmentRepository returns a ledger repository bound to the transaction.
func (uow *GormUnitOfWork) AdjustmentRepository() ports.AdjustmentRepository {
	return adjustmentrepo.NewGormAdjustmentRepository(uow.handle())
}
