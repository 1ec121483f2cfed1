package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	postgres_adapter "parcellocker/internal/adapters/out/postgres"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/core/ports"
	"parcellocker/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UnitOfWorkIntegrationTestSuite runs the repositories and the domain
// services against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(postgres_adapter.Config{
		Driver:       postgres_adapter.DriverPostgres,
		DSN:          dsn,
		MaxOpenConns: 20,
		LogLevel:     logger.Silent,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE one_time_passes, parcels, lockers").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(postgres_adapter.Close(suite.db))
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) provision(size kernel.SizeClass, from, count int) {
	ctx := context.Background()
	repo := suite.factory.Create().LockerRepository()
	for i := range count {
		id := locker.ID(from + i)
		loc, err := kernel.LocationForIndex(int(id) - 1)
		suite.Require().NoError(err)
		l, err := locker.NewLocker(id, locker.DefaultNumber(id), size, loc)
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Add(ctx, l))
	}
}

// TestConcurrentReserve starts 50 reservations against 10 medium lockers.
// Exactly 10 succeed, each with a different locker.
func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentReserve() {
	ctx := context.Background()
	suite.provision(kernel.Medium, 1, 10)
	suite.provision(kernel.Small, 11, 5)

	pool := services.NewLockerPool()

	var (
		mu       sync.Mutex
		reserved = map[locker.ID]int{}
		noLocker int
	)

	reserve := func() (locker.ID, error) {
		for {
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return 0, err
			}

			id, err := pool.Reserve(ctx, uow.LockerRepository(), kernel.Medium)
			if err == nil {
				err = uow.Commit(ctx)
			}
			if err != nil {
				_ = uow.Rollback(ctx)
			}
			if errors.Is(err, errs.ErrVersionIsInvalid) {
				continue
			}
			return id, err
		}
	}

	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			id, err := reserve()

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, locker.ErrNoLockerAvailable):
				noLocker++
			case err != nil:
				return err
			default:
				reserved[id]++
			}
			return nil
		})
	}
	suite.Require().NoError(g.Wait())

	suite.Len(reserved, 10)
	for id, n := range reserved {
		suite.Equal(1, n, fmt.Sprintf("locker %d reserved more than once", id))
		suite.LessOrEqual(int(id), 10)
	}
	suite.Equal(40, noLocker)
}

// TestDepositAndPickup runs the full parcel flow through PickupAuthorizer.
func (suite *UnitOfWorkIntegrationTestSuite) TestDepositAndPickup() {
	ctx := context.Background()
	suite.provision(kernel.Medium, 1, 2)

	authorizer := services.NewPickupAuthorizer(
		services.NewLockerPool(),
		parcel.RandomCodeGenerator{},
		kernel.SystemClock{},
		0,
	)

	run := func(fn func(uow ports.UnitOfWork) error) error {
		uow := suite.factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() { _ = uow.Rollback(ctx) }()

		if err := fn(uow); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	var p *parcel.Parcel
	suite.Require().NoError(run(func(uow ports.UnitOfWork) error {
		var err error
		p, err = authorizer.Deposit(ctx, uow.LockerRepository(), uow.ParcelRepository(),
			"TRK-001", "+254700000000", kernel.Medium)
		return err
	}))

	lockerID, _ := p.LockerID()
	suite.Equal(locker.ID(1), lockerID)

	err := run(func(uow ports.UnitOfWork) error {
		_, depositErr := authorizer.Deposit(ctx, uow.LockerRepository(), uow.ParcelRepository(),
			"TRK-001", "+254700000001", kernel.Medium)
		return depositErr
	})
	suite.Require().ErrorIs(err, parcel.ErrDuplicateTracking)

	var pass *parcel.OneTimePass
	suite.Require().NoError(run(func(uow ports.UnitOfWork) error {
		var issueErr error
		pass, issueErr = authorizer.IssuePass(ctx, uow.ParcelRepository(), p.ID())
		return issueErr
	}))

	suite.Require().NoError(run(func(uow ports.UnitOfWork) error {
		_, pickupErr := authorizer.ValidatePickup(ctx, uow.LockerRepository(), uow.ParcelRepository(), p.ID(), pass.Code())
		return pickupErr
	}))

	err = run(func(uow ports.UnitOfWork) error {
		_, pickupErr := authorizer.ValidatePickup(ctx, uow.LockerRepository(), uow.ParcelRepository(), p.ID(), pass.Code())
		return pickupErr
	})
	suite.Require().ErrorIs(err, parcel.ErrInvalidOtp)

	check := suite.factory.Create()
	l, err := check.LockerRepository().Get(ctx, 1)
	suite.Require().NoError(err)
	suite.Equal(locker.Available, l.State())

	other, err := check.LockerRepository().Get(ctx, 2)
	suite.Require().NoError(err)
	suite.Equal(locker.Available, other.State(), "duplicate deposit must not hold a locker")

	stored, err := check.ParcelRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.PickedUp, stored.Status())
}

// TestPartialUniqueIndex inserts directly to bypass the service-level check.
func (suite *UnitOfWorkIntegrationTestSuite) TestPartialUniqueIndex() {
	ctx := context.Background()
	repo := suite.factory.Create().ParcelRepository()

	first, err := parcel.NewParcel(kernel.NewUUID(), "TRK-009", "a", kernel.Small)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, first))

	second, err := parcel.NewParcel(kernel.NewUUID(), "TRK-009", "b", kernel.Small)
	suite.Require().NoError(err)
	suite.Require().ErrorIs(repo.Add(ctx, second), parcel.ErrDuplicateTracking)
}
