// Package ports defines the contracts between the locker core and its
// infrastructure: repositories, the unit of work and outbound notifications.
package ports

import (
	"context"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
)

// LockerRepository persists Locker aggregates.
//
// Update is a compare-and-swap on the aggregate version: it writes only when
// the stored version equals l.Version() and reports errs.ErrVersionIsInvalid
// otherwise. It never retries by itself.
type LockerRepository interface {
	// Add stores a newly provisioned locker.
	Add(ctx context.Context, l *locker.Locker) error

	Update(ctx context.Context, l *locker.Locker) error

	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id locker.ID) (*locker.Locker, error)

	// ListAvailable returns Available lockers of exactly size, lowest id first.
	ListAvailable(ctx context.Context, size kernel.SizeClass) ([]*locker.Locker, error)
}
