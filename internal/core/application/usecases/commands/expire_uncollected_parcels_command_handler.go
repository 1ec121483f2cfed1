package commands

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ExpireUncollectedParcelsCommandHandler expires each overdue parcel in its
// own transaction, under the same per-parcel lock pickups use. A parcel
// picked up between listing and expiring is skipped.
type ExpireUncollectedParcelsCommandHandler struct {
	uowFactory UoWFactory
	authorizer services.PickupAuthorizer
	locks      KeyLocker
	clock      kernel.Clock
	retry      RetryPolicy
	logger     *zap.Logger
}

func NewExpireUncollectedParcelsCommandHandler(
	uowFactory UoWFactory,
	authorizer services.PickupAuthorizer,
	locks KeyLocker,
	clock kernel.Clock,
	retry RetryPolicy,
	logger *zap.Logger,
) ExpireUncollectedParcelsCommandHandler {
	return ExpireUncollectedParcelsCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		locks:      locks,
		clock:      clock,
		retry:      retry,
		logger:     logger,
	}
}

// Handle returns the number of parcels expired. Failures on single parcels
// are logged and do not stop the batch; only listing errors are returned.
func (h ExpireUncollectedParcelsCommandHandler) Handle(ctx context.Context, command ExpireUncollectedParcelsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.clock.Now().Add(-command.HoldPeriod())
	ids, err := h.uowFactory.Create().ParcelRepository().ListUncollected(ctx, cutoff, command.BatchSize())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}

		err = withKey(ctx, h.locks, parcelKey(id.String()), func() error {
			return retryOnConflict(ctx, h.retry, func() error {
				return h.expire(ctx, id)
			})
		})
		switch {
		case errors.Is(err, parcel.ErrInvalidParcelState):
			continue
		case err != nil:
			metrics.OperationErrorsTotal.WithLabelValues("expire_parcel").Inc()
			h.logger.Error("failed to expire parcel", zap.String("parcel_id", id.String()), zap.Error(err))
			continue
		}

		expired++
		metrics.ParcelsExpiredTotal.Inc()
	}

	return expired, nil
}

func (h ExpireUncollectedParcelsCommandHandler) expire(ctx context.Context, id kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := h.authorizer.ExpireParcel(ctx, uow.LockerRepository(), uow.ParcelRepository(), id); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
