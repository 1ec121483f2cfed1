package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetParcelQueryHandler struct {
	db *gorm.DB
}

func NewGetParcelQueryHandler(db *gorm.DB) GetParcelQueryHandler {
	return GetParcelQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for unknown parcels.
func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (GetParcelQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	parcelID := query.ParcelID().Bytes()

	var (
		response     GetParcelQueryResponse
		id           uuid.UUID
		size, status int
		lockerID     sql.NullInt64
		lockerNumber sql.NullString
		deposit      sql.NullTime
		pickup       sql.NullTime
	)

	err := db.Raw(`
		SELECT
			p.id,
			p.tracking_number,
			p.size,
			p.status,
			p.locker_id,
			l.number,
			p.deposit_time,
			p.pickup_time
		FROM parcels p
		LEFT JOIN lockers l ON l.id = p.locker_id
		WHERE p.id = ?
	`, parcelID).Row().Scan(
		&id,
		&response.TrackingNumber,
		&size,
		&status,
		&lockerID,
		&lockerNumber,
		&deposit,
		&pickup,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetParcelQueryResponse{}, errs.NewObjectNotFoundError("parcelId", query.ParcelID().String())
	}
	if err != nil {
		return GetParcelQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetParcelQueryResponse{}, err
	}
	response.Size = kernel.SizeClass(size)
	response.Status = parcel.Status(status)
	response.LockerNumber = lockerNumber.String
	response.DepositTime = nullTime(deposit)
	response.PickupTime = nullTime(pickup)
	if lockerID.Valid {
		v := locker.ID(lockerID.Int64)
		response.LockerID = &v
	}

	var expires sql.NullTime
	err = db.Raw(`
		SELECT expires_at
		FROM one_time_passes
		WHERE parcel_id = ? AND consumed = ?
		ORDER BY expires_at DESC
		LIMIT 1
	`, parcelID, false).Row().Scan(&expires)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return GetParcelQueryResponse{}, err
	}
	if response.Status == parcel.AwaitingPickup {
		response.PassExpiresAt = nullTime(expires)
	}

	return response, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
