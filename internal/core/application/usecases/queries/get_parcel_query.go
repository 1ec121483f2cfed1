package queries

import (
	"errors"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

var ErrGetParcelQueryIsNotConstructed = errors.New(
	"GetParcelQuery must be created via NewGetParcelQuery constructor",
)

// GetParcelQuery reads the status of one parcel. Pass codes are never part of
// the read model.
type GetParcelQuery struct {
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetParcelQuery(parcelID kernel.UUID) (GetParcelQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelQuery{}, errs.NewValueIsRequiredErrorWithCause("parcelId", err)
	}

	return GetParcelQuery{parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQuery) ParcelID() kernel.UUID {
	return q.parcelID
}

func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

// GetParcelQueryResponse is the read model of a parcel. LockerID and
// LockerNumber are empty unless the parcel is in a locker or was picked up
// from one. PassExpiresAt is the expiry of the unconsumed pass, if any.
type GetParcelQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	Size           kernel.SizeClass
	Status         parcel.Status
	LockerID       *locker.ID
	LockerNumber   string
	DepositTime    *time.Time
	PickupTime     *time.Time
	PassExpiresAt  *time.Time
}
