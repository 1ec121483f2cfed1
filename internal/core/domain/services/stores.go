package services

import (
	"context"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
)

// LockerStore is the transaction-bound view of locker storage used by LockerPool.
type LockerStore interface {
	// ListAvailable returns Available lockers of exactly size, ordered by id ascending.
	ListAvailable(ctx context.Context, size kernel.SizeClass) ([]*locker.Locker, error)
	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id locker.ID) (*locker.Locker, error)
	// Update persists l only if the stored version still equals l.Version(),
	// otherwise it returns errs.ErrVersionIsInvalid.
	Update(ctx context.Context, l *locker.Locker) error
}

// ParcelStore is the transaction-bound view of parcel storage used by PickupAuthorizer.
type ParcelStore interface {
	// Add inserts a new parcel. A non-Expired parcel with the same tracking
	// number yields parcel.ErrDuplicateTracking.
	Add(ctx context.Context, p *parcel.Parcel) error
	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)
	// Update persists p and its passes with a version compare-and-swap.
	Update(ctx context.Context, p *parcel.Parcel) error
	// ExistsActiveTracking reports whether a non-Expired parcel uses trackingNumber.
	ExistsActiveTracking(ctx context.Context, trackingNumber string) (bool, error)
	// DeleteExpiredPasses removes unconsumed passes that expired before the
	// given instant and returns how many were removed.
	DeleteExpiredPasses(ctx context.Context, before time.Time) (int64, error)
}
