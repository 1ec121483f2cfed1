package jobs

import (
	"context"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type ExpireStalePassesHandler interface {
	Handle(ctx context.Context, command commands.ExpireStalePassesCommand) (int64, error)
}

// PassCleanupJob deletes expired, unconsumed passes.
type PassCleanupJob struct {
	handler  ExpireStalePassesHandler
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewPassCleanupJob(handler ExpireStalePassesHandler, schedule string, base *zap.Logger) *PassCleanupJob {
	l := logger.Component(base, "pass_cleanup_job")
	return &PassCleanupJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(l),
		logger:   l,
	}
}

func (j *PassCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("pass cleanup job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs a single cleanup pass.
func (j *PassCleanupJob) Run(ctx context.Context) {
	removed, err := j.handler.Handle(ctx, commands.NewExpireStalePassesCommand())
	if err != nil {
		j.logger.Error("pass cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("expired passes deleted", zap.Int64("count", removed))
	}
}

// Stop waits for a running cleanup to finish.
func (j *PassCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pass cleanup job stopped")
}
