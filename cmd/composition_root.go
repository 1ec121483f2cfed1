package cmd

import (
	"parcellocker/internal/adapters/in/http"
	"parcellocker/internal/adapters/out/notifier"
	"parcellocker/internal/adapters/out/postgres"
	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/application/usecases/queries"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/core/ports"
	"parcellocker/internal/jobs"
	"parcellocker/internal/pkg/keymutex"
	"parcellocker/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// PassNotifier is a ports.PassNotifier owned by the composition root.
type PassNotifier interface {
	ports.PassNotifier
	Close() error
}

// CompositionRoot owns the shared dependencies and builds every handler.
// Handlers share one KeyedMutex so that all work on a parcel is serialized
// process-wide.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	locks      *keymutex.KeyedMutex
	pool       services.LockerPool
	authorizer services.PickupAuthorizer
	notifier   PassNotifier
	clock      kernel.Clock
	retry      commands.RetryPolicy
	logger     *zap.Logger
}

// NewCompositionRoot publishes pass notifications to Kafka when brokers are
// configured and logs them otherwise.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, log *zap.Logger) *CompositionRoot {
	var n PassNotifier
	if len(cfg.KafkaBrokers) > 0 {
		n = notifier.NewKafkaPassNotifier(cfg.KafkaBrokers, cfg.KafkaPassIssuedTopic)
	} else {
		n = notifier.NewLogPassNotifier(logger.Component(log, "pass_notifier"))
	}

	return NewCompositionRootWith(cfg, gormDB, n, kernel.SystemClock{}, parcel.RandomCodeGenerator{}, log)
}

// NewCompositionRootWith lets tests pin the notifier, clock and codes.
func NewCompositionRootWith(
	cfg Config,
	gormDB *gorm.DB,
	n PassNotifier,
	clock kernel.Clock,
	codes parcel.CodeGenerator,
	log *zap.Logger,
) *CompositionRoot {
	pool := services.NewLockerPool()
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		locks:      &keymutex.KeyedMutex{},
		pool:       pool,
		authorizer: services.NewPickupAuthorizer(pool, codes, clock, cfg.PassTTL),
		notifier:   n,
		clock:      clock,
		retry:      commands.DefaultRetryPolicy,
		logger:     log,
	}
}

func (c *CompositionRoot) Close() error {
	return c.notifier.Close()
}

func (c *CompositionRoot) CreateDepositParcelCommandHandler() commands.DepositParcelCommandHandler {
	return commands.NewDepositParcelCommandHandler(
		c.unitOfWorkFactory(), c.authorizer, c.locks, c.notifier, c.retry,
		logger.Component(c.logger, "deposit_parcel"),
	)
}

func (c *CompositionRoot) CreateIssuePassCommandHandler() commands.IssuePassCommandHandler {
	return commands.NewIssuePassCommandHandler(
		c.unitOfWorkFactory(), c.authorizer, c.locks, c.notifier, c.retry,
		logger.Component(c.logger, "issue_pass"),
	)
}

func (c *CompositionRoot) CreateValidatePickupCommandHandler() commands.ValidatePickupCommandHandler {
	return commands.NewValidatePickupCommandHandler(c.unitOfWorkFactory(), c.authorizer, c.locks, c.retry)
}

func (c *CompositionRoot) CreateReleaseLockerCommandHandler() commands.ReleaseLockerCommandHandler {
	return commands.NewReleaseLockerCommandHandler(c.unitOfWorkFactory(), c.pool, c.retry)
}

func (c *CompositionRoot) CreateSetLockerMaintenanceCommandHandler() commands.SetLockerMaintenanceCommandHandler {
	return commands.NewSetLockerMaintenanceCommandHandler(c.lockerUnitOfWorkFactory(), c.pool, c.retry)
}

func (c *CompositionRoot) CreateClearLockerMaintenanceCommandHandler() commands.ClearLockerMaintenanceCommandHandler {
	return commands.NewClearLockerMaintenanceCommandHandler(c.lockerUnitOfWorkFactory(), c.pool, c.retry)
}

func (c *CompositionRoot) CreateProvisionLockersCommandHandler() commands.ProvisionLockersCommandHandler {
	return commands.NewProvisionLockersCommandHandler(c.lockerUnitOfWorkFactory())
}

func (c *CompositionRoot) CreateExpireStalePassesCommandHandler() commands.ExpireStalePassesCommandHandler {
	return commands.NewExpireStalePassesCommandHandler(c.parcelUnitOfWorkFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreateExpireUncollectedParcelsCommandHandler() commands.ExpireUncollectedParcelsCommandHandler {
	return commands.NewExpireUncollectedParcelsCommandHandler(
		c.unitOfWorkFactory(), c.authorizer, c.locks, c.clock, c.retry,
		logger.Component(c.logger, "expire_uncollected"),
	)
}

func (c *CompositionRoot) CreateGetLockersQueryHandler() queries.GetLockersQueryHandler {
	return queries.NewGetLockersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(c.gormDB)
}

// CreateEcho builds the HTTP API with every route registered.
func (c *CompositionRoot) CreateEcho() *echo.Echo {
	server := http.NewServer(http.Handlers{
		DepositParcel:          c.CreateDepositParcelCommandHandler(),
		IssuePass:              c.CreateIssuePassCommandHandler(),
		ValidatePickup:         c.CreateValidatePickupCommandHandler(),
		ReleaseLocker:          c.CreateReleaseLockerCommandHandler(),
		SetLockerMaintenance:   c.CreateSetLockerMaintenanceCommandHandler(),
		ClearLockerMaintenance: c.CreateClearLockerMaintenanceCommandHandler(),
		GetLockers:             c.CreateGetLockersQueryHandler(),
		GetParcel:              c.CreateGetParcelQueryHandler(),
	}, http.Options{
		RateLimit:           rate.Limit(c.cfg.RateLimit),
		RateBurst:           c.cfg.RateBurst,
		RateLimitIdle:       c.cfg.RateLimitIdle,
		TrustedProxies:      c.cfg.TrustedProxies,
		MaxPickupFailures:   c.cfg.MaxPickupFailures,
		PickupLockoutWindow: c.cfg.PickupLockoutWindow,
	}, logger.Component(c.logger, "http"))

	return http.NewEcho(server)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	return jobs.NewJobManager(
		c.CreateExpireStalePassesCommandHandler(),
		c.CreateExpireUncollectedParcelsCommandHandler(),
		c.cfg.JobsConfig(),
		c.logger,
	)
}

func (c *CompositionRoot) unitOfWorkFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lockerUnitOfWorkFactory() commands.LockerUoWFactory {
	return FuncLockerUoWFactory(func() commands.LockerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) parcelUnitOfWorkFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncLockerUoWFactory func() commands.LockerUoW

func (f FuncLockerUoWFactory) Create() commands.LockerUoW {
	return f()
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}
