package commands

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/pkg/metrics"
)

// ValidatePickupCommandHandler redeems a pass. Consuming the pass, marking
// the parcel picked up and releasing the locker commit together or not at all.
type ValidatePickupCommandHandler struct {
	uowFactory UoWFactory
	authorizer services.PickupAuthorizer
	locks      KeyLocker
	retry      RetryPolicy
}

func NewValidatePickupCommandHandler(
	uowFactory UoWFactory,
	authorizer services.PickupAuthorizer,
	locks KeyLocker,
	retry RetryPolicy,
) ValidatePickupCommandHandler {
	return ValidatePickupCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		locks:      locks,
		retry:      retry,
	}
}

// Handle returns the freed locker id, or parcel.ErrInvalidOtp.
func (h ValidatePickupCommandHandler) Handle(ctx context.Context, command ValidatePickupCommand) (locker.ID, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	var freed locker.ID
	err := withKey(ctx, h.locks, parcelKey(command.ParcelID().String()), func() error {
		return retryOnConflict(ctx, h.retry, func() error {
			var err error
			freed, err = h.pickup(ctx, command)
			return err
		})
	})
	if errors.Is(err, parcel.ErrInvalidOtp) {
		metrics.PickupFailuresTotal.Inc()
	}
	if err != nil {
		return 0, err
	}

	metrics.ParcelsPickedUpTotal.Inc()
	return freed, nil
}

func (h ValidatePickupCommandHandler) pickup(ctx context.Context, command ValidatePickupCommand) (locker.ID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := h.authorizer.ValidatePickup(
		ctx,
		uow.LockerRepository(),
		uow.ParcelRepository(),
		command.ParcelID(),
		command.Code(),
	)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	lockerID, _ := p.LockerID()
	return lockerID, nil
}
