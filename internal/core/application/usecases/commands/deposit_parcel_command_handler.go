package commands

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/core/ports"
	"parcellocker/internal/pkg/metrics"

	"go.uber.org/zap"
)

// DepositParcelResult is what the courier needs to finish the drop-off.
type DepositParcelResult struct {
	ParcelID     kernel.UUID
	LockerID     locker.ID
	LockerNumber string
	// Pass is nil unless the command asked for one.
	Pass *parcel.OneTimePass
}

// DepositParcelCommandHandler reserves a locker, records the parcel and
// optionally issues a pass, all in one transaction. Deposits with the same
// tracking number are serialized in-process; across processes the unique
// index on active tracking numbers decides.
//
// Example:
//
//	cmd, err := commands.NewDepositParcelCommand("TRK-001", "+254700000000", kernel.Medium, true)
//	if err != nil {
//	    return err
//	}
//	res, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, parcel.ErrDuplicateTracking):
//	case errors.Is(err, locker.ErrNoLockerAvailable):
//	}
type DepositParcelCommandHandler struct {
	uowFactory UoWFactory
	authorizer services.PickupAuthorizer
	locks      KeyLocker
	notifier   ports.PassNotifier
	retry      RetryPolicy
	logger     *zap.Logger
}

func NewDepositParcelCommandHandler(
	uowFactory UoWFactory,
	authorizer services.PickupAuthorizer,
	locks KeyLocker,
	notifier ports.PassNotifier,
	retry RetryPolicy,
	logger *zap.Logger,
) DepositParcelCommandHandler {
	return DepositParcelCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		locks:      locks,
		notifier:   notifier,
		retry:      retry,
		logger:     logger,
	}
}

func (h DepositParcelCommandHandler) Handle(ctx context.Context, command DepositParcelCommand) (DepositParcelResult, error) {
	if err := command.Validate(); err != nil {
		return DepositParcelResult{}, err
	}

	var (
		result DepositParcelResult
		p      *parcel.Parcel
	)

	err := withKey(ctx, h.locks, trackingKey(command.TrackingNumber()), func() error {
		return retryOnConflict(ctx, h.retry, func() error {
			var err error
			p, result, err = h.deposit(ctx, command)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, locker.ErrNoLockerAvailable) {
			metrics.NoLockerAvailableTotal.WithLabelValues(command.SizeClass().String()).Inc()
		}
		return DepositParcelResult{}, err
	}

	metrics.ParcelsDepositedTotal.Inc()
	if result.Pass != nil {
		metrics.PassesIssuedTotal.Inc()
		notifyPassIssued(ctx, h.notifier, h.logger, p, result.LockerNumber, result.Pass)
	}

	return result, nil
}

func (h DepositParcelCommandHandler) deposit(
	ctx context.Context,
	command DepositParcelCommand,
) (*parcel.Parcel, DepositParcelResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, DepositParcelResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	lockers := uow.LockerRepository()
	parcels := uow.ParcelRepository()

	p, err := h.authorizer.Deposit(
		ctx,
		lockers,
		parcels,
		command.TrackingNumber(),
		command.RecipientContact(),
		command.SizeClass(),
	)
	if errors.Is(err, services.ErrRollbackFailed) {
		h.logger.Warn("deposit rollback failed, transaction will be rolled back", zap.Error(err))
	}
	if err != nil {
		return nil, DepositParcelResult{}, err
	}

	lockerID, _ := p.LockerID()
	l, err := lockers.Get(ctx, lockerID)
	if err != nil {
		return nil, DepositParcelResult{}, err
	}

	result := DepositParcelResult{
		ParcelID:     p.ID(),
		LockerID:     lockerID,
		LockerNumber: l.Number(),
	}

	if command.IssuePass() {
		result.Pass, err = h.authorizer.IssuePass(ctx, parcels, p.ID())
		if err != nil {
			return nil, DepositParcelResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, DepositParcelResult{}, err
	}

	return p, result, nil
}

// withKey runs fn while holding key.
func withKey(ctx context.Context, locks KeyLocker, key string, fn func() error) error {
	unlock, err := locks.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	return fn()
}

// notifyPassIssued runs after commit and outside any lock. Delivery failures
// are logged; the pass stays valid and can be reissued.
func notifyPassIssued(
	ctx context.Context,
	notifier ports.PassNotifier,
	logger *zap.Logger,
	p *parcel.Parcel,
	lockerNumber string,
	pass *parcel.OneTimePass,
) {
	event := ports.PassIssuedEvent{
		ParcelID:         p.ID(),
		TrackingNumber:   p.TrackingNumber(),
		RecipientContact: p.RecipientContact(),
		LockerNumber:     lockerNumber,
		Code:             pass.Code(),
		ExpiresAt:        pass.ExpiresAt(),
	}

	if err := notifier.NotifyPassIssued(ctx, event); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("notify_pass_issued").Inc()
		logger.Warn("pass notification failed",
			zap.String("parcel_id", p.ID().String()),
			zap.Error(err),
		)
	}
}
