package commands

import (
	"context"
	"fmt"

	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/services"
)

// ReleaseLockerCommandHandler frees a locker on operator request. A locker
// that still holds a parcel awaiting pickup is refused with
// locker.ErrLockerBusy; such parcels leave through pickup or expiry.
type ReleaseLockerCommandHandler struct {
	uowFactory UoWFactory
	pool       services.LockerPool
	retry      RetryPolicy
}

func NewReleaseLockerCommandHandler(uowFactory UoWFactory, pool services.LockerPool, retry RetryPolicy) ReleaseLockerCommandHandler {
	return ReleaseLockerCommandHandler{uowFactory: uowFactory, pool: pool, retry: retry}
}

func (h ReleaseLockerCommandHandler) Handle(ctx context.Context, command ReleaseLockerCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.retry, func() error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		// The locker is read before the parcel check so that a deposit
		// committed in between bumps its version and fails the release.
		lockers := uow.LockerRepository()
		l, err := lockers.Get(ctx, command.LockerID())
		if err != nil {
			return err
		}

		held, err := uow.ParcelRepository().HasParcelInLocker(ctx, command.LockerID())
		if err != nil {
			return err
		}
		if held {
			return fmt.Errorf("locker %d: %w: a parcel is awaiting pickup", command.LockerID(), locker.ErrLockerBusy)
		}

		if err = h.pool.ReleaseLoaded(ctx, lockers, l); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}

// SetLockerMaintenanceCommandHandler takes an Available locker out of service.
type SetLockerMaintenanceCommandHandler struct {
	uowFactory LockerUoWFactory
	pool       services.LockerPool
	retry      RetryPolicy
}

func NewSetLockerMaintenanceCommandHandler(
	uowFactory LockerUoWFactory,
	pool services.LockerPool,
	retry RetryPolicy,
) SetLockerMaintenanceCommandHandler {
	return SetLockerMaintenanceCommandHandler{uowFactory: uowFactory, pool: pool, retry: retry}
}

func (h SetLockerMaintenanceCommandHandler) Handle(ctx context.Context, command SetLockerMaintenanceCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return changeLocker(ctx, h.uowFactory, h.retry, command.LockerID(), h.pool.SetMaintenance)
}

// ClearLockerMaintenanceCommandHandler returns a locker to service.
type ClearLockerMaintenanceCommandHandler struct {
	uowFactory LockerUoWFactory
	pool       services.LockerPool
	retry      RetryPolicy
}

func NewClearLockerMaintenanceCommandHandler(
	uowFactory LockerUoWFactory,
	pool services.LockerPool,
	retry RetryPolicy,
) ClearLockerMaintenanceCommandHandler {
	return ClearLockerMaintenanceCommandHandler{uowFactory: uowFactory, pool: pool, retry: retry}
}

func (h ClearLockerMaintenanceCommandHandler) Handle(ctx context.Context, command ClearLockerMaintenanceCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return changeLocker(ctx, h.uowFactory, h.retry, command.LockerID(), h.pool.ClearMaintenance)
}

func changeLocker(
	ctx context.Context,
	uowFactory LockerUoWFactory,
	retry RetryPolicy,
	id locker.ID,
	change func(context.Context, services.LockerStore, locker.ID) error,
) error {
	return retryOnConflict(ctx, retry, func() error {
		uow := uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := change(ctx, uow.LockerRepository(), id); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
