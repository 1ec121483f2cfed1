package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
)

// DefaultPassTTL is how long an issued pass stays valid.
const DefaultPassTTL = 10 * time.Minute

// ErrRollbackFailed is joined to the original error when Deposit could not
// release the locker it had reserved. The locker may stay Reserved.
var ErrRollbackFailed = errors.New("locker rollback failed")

// PickupAuthorizer deposits parcels, issues one-time passes and authorizes
// pickups. Locker state is only ever changed through its LockerPool.
type PickupAuthorizer struct {
	pool    LockerPool
	codes   parcel.CodeGenerator
	clock   kernel.Clock
	passTTL time.Duration
}

// NewPickupAuthorizer wires the authorizer. A non-positive passTTL falls back
// to DefaultPassTTL.
func NewPickupAuthorizer(
	pool LockerPool,
	codes parcel.CodeGenerator,
	clock kernel.Clock,
	passTTL time.Duration,
) PickupAuthorizer {
	if passTTL <= 0 {
		passTTL = DefaultPassTTL
	}
	return PickupAuthorizer{
		pool:    pool,
		codes:   codes,
		clock:   clock,
		passTTL: passTTL,
	}
}

// PassTTL returns the validity window of issued passes.
func (a PickupAuthorizer) PassTTL() time.Duration {
	return a.passTTL
}

// Deposit places a new parcel into a freshly reserved locker.
//
// Steps:
//  1. validate input and reject tracking numbers already used by an active parcel
//  2. reserve a locker of exactly size
//  3. record the parcel as AwaitingPickup in that locker
//  4. confirm the locker as Occupied
//
// If step 3 or 4 fails the reservation is released before the error is
// returned. A failed release is reported with ErrRollbackFailed joined to the
// original error.
//
// Returns:
//   - the deposited parcel
//   - parcel.ErrDuplicateTracking, locker.ErrNoLockerAvailable,
//     errs.ErrVersionIsInvalid, validation or storage errors
func (a PickupAuthorizer) Deposit(
	ctx context.Context,
	lockers LockerStore,
	parcels ParcelStore,
	trackingNumber string,
	recipientContact string,
	size kernel.SizeClass,
) (*parcel.Parcel, error) {
	p, err := parcel.NewParcel(kernel.NewUUID(), trackingNumber, recipientContact, size)
	if err != nil {
		return nil, err
	}

	exists, err := parcels.ExistsActiveTracking(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", parcel.ErrDuplicateTracking, trackingNumber)
	}

	lockerID, err := a.pool.Reserve(ctx, lockers, size)
	if err != nil {
		return nil, err
	}

	if err = a.occupy(ctx, lockers, parcels, p, lockerID); err != nil {
		if releaseErr := a.pool.Release(ctx, lockers, lockerID); releaseErr != nil {
			return nil, errors.Join(err, fmt.Errorf("%w: locker %d: %w", ErrRollbackFailed, lockerID, releaseErr))
		}
		return nil, err
	}

	return p, nil
}

func (a PickupAuthorizer) occupy(
	ctx context.Context,
	lockers LockerStore,
	parcels ParcelStore,
	p *parcel.Parcel,
	lockerID locker.ID,
) error {
	if err := p.Deposit(lockerID, a.clock.Now()); err != nil {
		return err
	}
	if err := parcels.Add(ctx, p); err != nil {
		return err
	}
	return a.pool.ConfirmOccupied(ctx, lockers, lockerID)
}

// IssuePass generates a new code for a parcel awaiting pickup. Any earlier
// unconsumed pass stops working.
//
// Returns:
//   - the new pass, valid until now + PassTTL
//   - parcel.ErrInvalidParcelState unless the parcel is AwaitingPickup
func (a PickupAuthorizer) IssuePass(ctx context.Context, parcels ParcelStore, parcelID kernel.UUID) (*parcel.OneTimePass, error) {
	p, err := parcels.Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	if p.Status() != parcel.AwaitingPickup {
		return nil, fmt.Errorf("parcel %s: %w: cannot issue a pass while %s", parcelID, parcel.ErrInvalidParcelState, p.Status())
	}

	code, err := a.codes.Generate()
	if err != nil {
		return nil, err
	}

	pass, err := p.IssuePass(kernel.NewUUID(), code, a.clock.Now(), a.passTTL)
	if err != nil {
		return nil, err
	}

	if err = parcels.Update(ctx, p); err != nil {
		return nil, err
	}

	return pass, nil
}

// ValidatePickup redeems code for the parcel and frees its locker.
//
// On success the pass is consumed, the parcel becomes PickedUp with the
// current pickup time, and the locker is released. Callers commit all of it
// in one transaction.
//
// Returns:
//   - the picked up parcel
//   - parcel.ErrInvalidOtp for a wrong, consumed or expired code, or a parcel
//     that is not awaiting pickup
func (a PickupAuthorizer) ValidatePickup(
	ctx context.Context,
	lockers LockerStore,
	parcels ParcelStore,
	parcelID kernel.UUID,
	code string,
) (*parcel.Parcel, error) {
	p, err := parcels.Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	lockerID, err := p.Redeem(code, a.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = parcels.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = a.pool.Release(ctx, lockers, lockerID); err != nil {
		return nil, err
	}

	return p, nil
}

// ExpireStalePasses deletes unconsumed passes that expired before now. It
// only reclaims storage; expired passes are already rejected by ValidatePickup.
func (a PickupAuthorizer) ExpireStalePasses(ctx context.Context, parcels ParcelStore, now time.Time) (int64, error) {
	return parcels.DeleteExpiredPasses(ctx, now)
}

// ExpireParcel ends the hold of an uncollected parcel and frees its locker.
//
// Returns:
//   - the freed locker id
//   - parcel.ErrInvalidParcelState unless the parcel is AwaitingPickup
func (a PickupAuthorizer) ExpireParcel(
	ctx context.Context,
	lockers LockerStore,
	parcels ParcelStore,
	parcelID kernel.UUID,
) (locker.ID, error) {
	p, err := parcels.Get(ctx, parcelID)
	if err != nil {
		return 0, err
	}

	lockerID, err := p.Expire()
	if err != nil {
		return 0, err
	}

	if err = parcels.Update(ctx, p); err != nil {
		return 0, err
	}

	if err = a.pool.Release(ctx, lockers, lockerID); err != nil {
		return 0, err
	}

	return lockerID, nil
}
