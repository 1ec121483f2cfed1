package commands

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"
)

// ProvisionResult counts what a provisioning run did.
type ProvisionResult struct {
	Created  int
	Existing int
}

// ProvisionLockersCommandHandler inserts missing lockers in one transaction.
// Existing lockers keep their state; running it twice changes nothing.
type ProvisionLockersCommandHandler struct {
	uowFactory LockerUoWFactory
}

func NewProvisionLockersCommandHandler(uowFactory LockerUoWFactory) ProvisionLockersCommandHandler {
	return ProvisionLockersCommandHandler{uowFactory: uowFactory}
}

func (h ProvisionLockersCommandHandler) Handle(ctx context.Context, command ProvisionLockersCommand) (ProvisionResult, error) {
	if err := command.Validate(); err != nil {
		return ProvisionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProvisionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LockerRepository()

	var result ProvisionResult
	for _, spec := range command.Specs() {
		_, err := repo.Get(ctx, spec.ID)
		if err == nil {
			result.Existing++
			continue
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return ProvisionResult{}, err
		}

		l, err := locker.NewLocker(spec.ID, spec.Number, spec.Size, spec.Location)
		if err != nil {
			return ProvisionResult{}, err
		}
		if err = repo.Add(ctx, l); err != nil {
			return ProvisionResult{}, err
		}
		result.Created++
	}

	if err := uow.Commit(ctx); err != nil {
		return ProvisionResult{}, err
	}

	return result, nil
}
