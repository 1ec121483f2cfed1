package jobs

import (
	"context"
	"time"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type ExpireUncollectedParcelsHandler interface {
	Handle(ctx context.Context, command commands.ExpireUncollectedParcelsCommand) (int, error)
}

// ParcelExpiryJob expires parcels nobody collected within the hold period.
type ParcelExpiryJob struct {
	handler  ExpireUncollectedParcelsHandler
	command  commands.ExpireUncollectedParcelsCommand
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewParcelExpiryJob(
	handler ExpireUncollectedParcelsHandler,
	schedule string,
	holdPeriod time.Duration,
	batchSize int,
	base *zap.Logger,
) (*ParcelExpiryJob, error) {
	command, err := commands.NewExpireUncollectedParcelsCommand(holdPeriod, batchSize)
	if err != nil {
		return nil, err
	}

	l := logger.Component(base, "parcel_expiry_job")
	return &ParcelExpiryJob{
		handler:  handler,
		command:  command,
		schedule: schedule,
		cron:     newCron(l),
		logger:   l,
	}, nil
}

func (j *ParcelExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("parcel expiry job started",
		zap.String("schedule", j.schedule),
		zap.Duration("hold_period", j.command.HoldPeriod()),
	)
	return nil
}

// Run expires one batch of parcels.
func (j *ParcelExpiryJob) Run(ctx context.Context) {
	expired, err := j.handler.Handle(ctx, j.command)
	if err != nil {
		j.logger.Error("parcel expiry failed", zap.Error(err))
		return
	}
	if expired > 0 {
		j.logger.Info("uncollected parcels expired", zap.Int("count", expired))
	}
}

func (j *ParcelExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("parcel expiry job stopped")
}
