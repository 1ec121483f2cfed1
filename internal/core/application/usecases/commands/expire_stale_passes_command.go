package commands

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/pkg/guard"
	"parcellocker/internal/pkg/metrics"
)

var ErrExpireStalePassesCommandIsNotConstructed = errors.New(
	"ExpireStalePassesCommand must be created via NewExpireStalePassesCommand constructor",
)

// ExpireStalePassesCommand deletes unconsumed passes past their expiry.
type ExpireStalePassesCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireStalePassesCommand() ExpireStalePassesCommand {
	return ExpireStalePassesCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireStalePassesCommand) Validate() error {
	return c.guard.Validate(ErrExpireStalePassesCommandIsNotConstructed)
}

type ExpireStalePassesCommandHandler struct {
	uowFactory ParcelUoWFactory
	authorizer services.PickupAuthorizer
	clock      kernel.Clock
}

func NewExpireStalePassesCommandHandler(
	uowFactory ParcelUoWFactory,
	authorizer services.PickupAuthorizer,
	clock kernel.Clock,
) ExpireStalePassesCommandHandler {
	return ExpireStalePassesCommandHandler{uowFactory: uowFactory, authorizer: authorizer, clock: clock}
}

// Handle returns how many passes were deleted.
func (h ExpireStalePassesCommandHandler) Handle(ctx context.Context, command ExpireStalePassesCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := h.authorizer.ExpireStalePasses(ctx, uow.ParcelRepository(), h.clock.Now())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	metrics.PassesPurgedTotal.Add(float64(removed))
	return removed, nil
}
