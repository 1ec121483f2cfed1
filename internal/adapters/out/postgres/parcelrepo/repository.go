package parcelrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormParcelRepository implements ports.ParcelRepository using GORM. The
// connection must be opened with TranslateError so unique violations surface
// as gorm.ErrDuplicatedKey.
type GormParcelRepository struct {
	db *gorm.DB
}

func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// Add inserts a parcel and its passes.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("tracking number %q: %w", aggregate.TrackingNumber(), parcel.ErrDuplicateTracking)
		}
		return err
	}

	return nil
}

// Update writes the parcel if the stored version matches, then replaces its
// passes. Run it inside a transaction; a conflict leaves the passes untouched.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&ParcelDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"locker_id":    dto.LockerID,
			"status":       dto.Status,
			"deposit_time": dto.DepositTime,
			"pickup_time":  dto.PickupTime,
			"version":      dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("parcel")
	}

	if err := db.Where("parcel_id = ?", dto.ID).Delete(&PassDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Passes) == 0 {
		return nil
	}

	return db.Create(&dto.Passes).Error
}

// Get retrieves a parcel with its passes in issue order.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	err := r.db.WithContext(ctx).
		Preload("Passes", func(db *gorm.DB) *gorm.DB { return db.Order("issued_at") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcelId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormParcelRepository) ExistsActiveTracking(ctx context.Context, trackingNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("tracking_number = ? AND status <> ?", trackingNumber, int(parcel.Expired)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormParcelRepository) HasParcelInLocker(ctx context.Context, lockerID locker.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("locker_id = ? AND status = ?", int(lockerID), int(parcel.AwaitingPickup)).
		Count(&count).Error
	return count > 0, err
}

// ListUncollected returns the oldest parcels still awaiting pickup that were
// deposited before depositedBefore.
func (r *GormParcelRepository) ListUncollected(
	ctx context.Context,
	depositedBefore time.Time,
	limit int,
) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("status = ? AND deposit_time < ?", int(parcel.AwaitingPickup), depositedBefore.UTC()).
		Order("deposit_time").
		Limit(limit).
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, u := range raw {
		id, convErr := kernel.UUIDFromBytes(u[:])
		if convErr != nil {
			return nil, convErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// DeleteExpiredPasses removes unconsumed passes that expired before the given
// instant. Consumed passes stay as a record of the pickup.
func (r *GormParcelRepository) DeleteExpiredPasses(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("consumed = ? AND expires_at < ?", false, before.UTC()).
		Delete(&PassDTO{})
	return result.RowsAffected, result.Error
}
