package jobs

import (
	"fmt"
	"time"

	"parcellocker/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// Config holds job schedules (six-field cron expressions) and expiry tuning.
type Config struct {
	PassCleanupSchedule  string
	ParcelExpirySchedule string
	HoldPeriod           time.Duration
	ExpiryBatchSize      int
}

var DefaultConfig = Config{
	PassCleanupSchedule:  "0 * * * * *",
	ParcelExpirySchedule: "0 */5 * * * *",
	HoldPeriod:           commands.DefaultHoldPeriod,
	ExpiryBatchSize:      100,
}

// JobManager starts and stops all background jobs together.
type JobManager struct {
	passCleanupJob  *PassCleanupJob
	parcelExpiryJob *ParcelExpiryJob
}

func NewJobManager(
	expireStalePassesHandler ExpireStalePassesHandler,
	expireUncollectedHandler ExpireUncollectedParcelsHandler,
	cfg Config,
	logger *zap.Logger,
) (*JobManager, error) {
	parcelExpiryJob, err := NewParcelExpiryJob(
		expireUncollectedHandler,
		cfg.ParcelExpirySchedule,
		cfg.HoldPeriod,
		cfg.ExpiryBatchSize,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parcel expiry job: %w", err)
	}

	return &JobManager{
		passCleanupJob:  NewPassCleanupJob(expireStalePassesHandler, cfg.PassCleanupSchedule, logger),
		parcelExpiryJob: parcelExpiryJob,
	}, nil
}

// StartAll starts every job, stopping the ones already started if a later
// one fails.
func (jm *JobManager) StartAll() error {
	if err := jm.passCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start pass cleanup job: %w", err)
	}

	if err := jm.parcelExpiryJob.Start(); err != nil {
		jm.passCleanupJob.Stop()
		return fmt.Errorf("failed to start parcel expiry job: %w", err)
	}

	return nil
}

// StopAll stops every job and waits for in-flight runs.
func (jm *JobManager) StopAll() {
	jm.parcelExpiryJob.Stop()
	jm.passCleanupJob.Stop()
}
