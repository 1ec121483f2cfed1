package commands

import (
	"context"

	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/core/ports"
	"parcellocker/internal/pkg/metrics"

	"go.uber.org/zap"
)

// IssuePassCommandHandler replaces the parcel's pass with a new one and
// notifies the recipient after the transaction commits.
type IssuePassCommandHandler struct {
	uowFactory UoWFactory
	authorizer services.PickupAuthorizer
	locks      KeyLocker
	notifier   ports.PassNotifier
	retry      RetryPolicy
	logger     *zap.Logger
}

func NewIssuePassCommandHandler(
	uowFactory UoWFactory,
	authorizer services.PickupAuthorizer,
	locks KeyLocker,
	notifier ports.PassNotifier,
	retry RetryPolicy,
	logger *zap.Logger,
) IssuePassCommandHandler {
	return IssuePassCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		locks:      locks,
		notifier:   notifier,
		retry:      retry,
		logger:     logger,
	}
}

// Handle returns the new pass, or parcel.ErrInvalidParcelState when the
// parcel is not awaiting pickup.
func (h IssuePassCommandHandler) Handle(ctx context.Context, command IssuePassCommand) (*parcel.OneTimePass, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var (
		pass         *parcel.OneTimePass
		p            *parcel.Parcel
		lockerNumber string
	)

	err := withKey(ctx, h.locks, parcelKey(command.ParcelID().String()), func() error {
		return retryOnConflict(ctx, h.retry, func() error {
			var err error
			pass, p, lockerNumber, err = h.issue(ctx, command)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.PassesIssuedTotal.Inc()
	notifyPassIssued(ctx, h.notifier, h.logger, p, lockerNumber, pass)

	return pass, nil
}

func (h IssuePassCommandHandler) issue(
	ctx context.Context,
	command IssuePassCommand,
) (*parcel.OneTimePass, *parcel.Parcel, string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcels := uow.ParcelRepository()

	pass, err := h.authorizer.IssuePass(ctx, parcels, command.ParcelID())
	if err != nil {
		return nil, nil, "", err
	}

	p, err := parcels.Get(ctx, command.ParcelID())
	if err != nil {
		return nil, nil, "", err
	}

	lockerID, _ := p.LockerID()
	l, err := uow.LockerRepository().Get(ctx, lockerID)
	if err != nil {
		return nil, nil, "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, "", err
	}

	return pass, p, l.Number(), nil
}
