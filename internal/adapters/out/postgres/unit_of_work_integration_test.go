package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "laundrybot/internal/adapters/out/postgres"
	"laundrybot/internal/adapters/out/postgres/adjustmentrepo"
	"laundrybot/internal/adapters/out/postgres/beaconrepo"
	"laundrybot/internal/adapters/out/postgres/requestrepo"
	"laundrybot/internal/adapters/out/postgres/robotrepo"
	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&requestrepo.RequestDTO{},
		&robotrepo.RobotDTO{},
		&beaconrepo.BeaconDTO{},
		&adjustmentrepo.AdjustmentDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE requests, robots, beacons, adjustments").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newRequest(customerID string) *request.LaundryRequest {
	room, err := kernel.NewRoom("Room 204", "AA:BB:CC:DD:EE:FF")
	suite.Require().NoError(err)

	aggregate, err := request.NewLaundryRequest(customerID, "Dana", request.PickupOnly, room, time.Now())
	suite.Require().NoError(err)
	return aggregate
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "repeated Begin must not nest")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	// Rollback with nothing open supports the defer pattern.
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitPersistsAndBackfillsID() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newRequest("cust-1")
	suite.Require().NoError(uow.RequestRepository().Add(ctx, aggregate))
	suite.Positive(aggregate.ID(), "insert must assign the id")
	suite.Require().NoError(uow.Commit(ctx))

	check := suite.factory.Create()
	suite.Require().NoError(check.Begin(ctx))
	defer func() { _ = check.Rollback(ctx) }()

	loaded, err := check.RequestRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal("cust-1", loaded.CustomerID())
	suite.Equal(request.Pending, loaded.Status())
	suite.Equal("AA:BB:CC:DD:EE:FF", loaded.Room().BeaconMac())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	aggregate := suite.newRequest("cust-2")
	suite.Require().NoError(uow.RequestRepository().Add(ctx, aggregate))
	suite.Require().NoError(uow.Rollback(ctx))

	check := suite.factory.Create()
	suite.Require().NoError(check.Begin(ctx))
	defer func() { _ = check.Rollback(ctx) }()

	_, err := check.RequestRepository().Get(ctx, aggregate.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCrossRepositoryTransaction() {
	ctx := context.Background()

	// Seed a request outside the transaction under test.
	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	aggregate := suite.newRequest("cust-3")
	suite.Require().NoError(seed.RequestRepository().Add(ctx, aggregate))
	suite.Require().NoError(seed.Commit(ctx))

	// A cancellation writes the request and its refund entry atomically.
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(aggregate.Cancel("wrong room", "operator", time.Now()))
	suite.Require().NoError(uow.RequestRepository().Update(ctx, aggregate))

	entry, err := payment.NewAdjustment(
		aggregate.ID(), payment.KindRefund, 1200, "goodwill", "operator", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.AdjustmentRepository().Add(ctx, entry))
	suite.Require().NoError(uow.Commit(ctx))

	check := suite.factory.Create()
	suite.Require().NoError(check.Begin(ctx))
	defer func() { _ = check.Rollback(ctx) }()

	loaded, err := check.RequestRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(request.Cancelled, loaded.Status())

	entries, err := check.AdjustmentRepository().GetByRequest(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(int64(-1200), entries[0].SignedCents())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
