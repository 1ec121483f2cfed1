package services

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"
)

// LockerPool allocates and frees lockers. It is stateless; the zero value is
// ready to use.
//
// Example usage:
//
//	pool := services.NewLockerPool()
//	id, err := pool.Reserve(ctx, uow.LockerRepository(), kernel.Medium)
//	if errors.Is(err, locker.ErrNoLockerAvailable) {
//	    // nothing of that size is free
//	}
type LockerPool struct{}

func NewLockerPool() LockerPool {
	return LockerPool{}
}

// Reserve moves the lowest-id Available locker of exactly size to Reserved.
//
// Candidates are tried in id order. A candidate taken by a concurrent
// reservation (version conflict) is skipped and the next one is tried.
//
// Returns:
//   - the reserved locker id
//   - locker.ErrNoLockerAvailable when no Available locker of that size exists
//   - errs.ErrVersionIsInvalid when every candidate was lost to a concurrent
//     reservation; the caller should retry the whole transaction
func (LockerPool) Reserve(ctx context.Context, store LockerStore, size kernel.SizeClass) (locker.ID, error) {
	if err := size.Validate(); err != nil {
		return 0, err
	}

	candidates, err := store.ListAvailable(ctx, size)
	if err != nil {
		return 0, err
	}

	var conflict error
	for _, l := range candidates {
		if !l.Fits(size) {
			continue
		}

		if err = l.Reserve(); err != nil {
			return 0, err
		}

		err = store.Update(ctx, l)
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			conflict = err
			continue
		}
		if err != nil {
			return 0, err
		}

		return l.ID(), nil
	}

	if conflict != nil {
		return 0, conflict
	}
	return 0, locker.ErrNoLockerAvailable
}

// ConfirmOccupied moves a Reserved locker to Occupied.
func (LockerPool) ConfirmOccupied(ctx context.Context, store LockerStore, id locker.ID) error {
	l, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err = l.ConfirmOccupied(); err != nil {
		return err
	}

	return store.Update(ctx, l)
}

// Release frees a Reserved or Occupied locker. Releasing an Available locker
// succeeds without writing. Lockers under maintenance fail with
// locker.ErrInvalidTransition.
func (LockerPool) Release(ctx context.Context, store LockerStore, id locker.ID) error {
	return apply(ctx, store, id, (*locker.Locker).Release)
}

// ReleaseLoaded is Release for a locker the caller already read in the same
// transaction. The write is checked against the version l was loaded at, so
// any change committed since that read fails with errs.ErrVersionIsInvalid.
func (LockerPool) ReleaseLoaded(ctx context.Context, store LockerStore, l *locker.Locker) error {
	return transition(ctx, store, l, (*locker.Locker).Release)
}

// SetMaintenance takes an Available locker out of service. It is a no-op for
// lockers already under maintenance and fails with locker.ErrLockerBusy for
// lockers in use.
func (LockerPool) SetMaintenance(ctx context.Context, store LockerStore, id locker.ID) error {
	return apply(ctx, store, id, (*locker.Locker).SetMaintenance)
}

// ClearMaintenance returns a locker under maintenance to service.
func (LockerPool) ClearMaintenance(ctx context.Context, store LockerStore, id locker.ID) error {
	return apply(ctx, store, id, (*locker.Locker).ClearMaintenance)
}

func apply(
	ctx context.Context,
	store LockerStore,
	id locker.ID,
	change func(*locker.Locker) (bool, error),
) error {
	l, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	return transition(ctx, store, l, change)
}

func transition(
	ctx context.Context,
	store LockerStore,
	l *locker.Locker,
	change func(*locker.Locker) (bool, error),
) error {
	changed, err := change(l)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return store.Update(ctx, l)
}
