package ports

import (
	"context"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
)

// ParcelRepository persists Parcel aggregates together with their passes.
type ParcelRepository interface {
	// Add inserts a parcel. Storage enforces tracking number uniqueness among
	// non-Expired parcels and reports a violation as parcel.ErrDuplicateTracking.
	Add(ctx context.Context, p *parcel.Parcel) error

	// Update writes the parcel with a version compare-and-swap and replaces
	// its stored passes with the aggregate's passes.
	Update(ctx context.Context, p *parcel.Parcel) error

	// Get loads the parcel and its passes.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	ExistsActiveTracking(ctx context.Context, trackingNumber string) (bool, error)

	// HasParcelInLocker reports whether a parcel awaiting pickup references lockerID.
	HasParcelInLocker(ctx context.Context, lockerID locker.ID) (bool, error)

	// ListUncollected returns up to limit ids of parcels awaiting pickup that
	// were deposited before the given instant, oldest first.
	ListUncollected(ctx context.Context, depositedBefore time.Time, limit int) ([]kernel.UUID, error)

	// DeleteExpiredPasses removes unconsumed passes that expired before the
	// given instant.
	DeleteExpiredPasses(ctx context.Context, before time.Time) (int64, error)
}
