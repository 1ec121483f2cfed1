package lockerrepo

import (
	"context"
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLockerRepository implements ports.LockerRepository using GORM.
type GormLockerRepository struct {
	db *gorm.DB
}

func NewGormLockerRepository(db *gorm.DB) *GormLockerRepository {
	return &GormLockerRepository{db: db}
}

// Add inserts a provisioned locker.
func (r *GormLockerRepository) Add(ctx context.Context, aggregate *locker.Locker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the state only if the stored version still equals the
// version the aggregate was loaded with.
func (r *GormLockerRepository) Update(ctx context.Context, aggregate *locker.Locker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LockerDTO{}).
		Where("id = ? AND version = ?", int(aggregate.ID()), aggregate.Version()).
		Updates(map[string]any{
			"state":   int(aggregate.State()),
			"version": aggregate.Version() + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("locker")
	}

	return nil
}

// Get retrieves a locker by id.
func (r *GormLockerRepository) Get(ctx context.Context, id locker.ID) (*locker.Locker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LockerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", int(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("lockerId", int(id))
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListAvailable returns Available lockers of exactly size, lowest id first.
func (r *GormLockerRepository) ListAvailable(ctx context.Context, size kernel.SizeClass) ([]*locker.Locker, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}

	var dtos []LockerDTO
	if err := r.db.WithContext(ctx).
		Where("size = ? AND state = ?", int(size), int(locker.Available)).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	lockers := make([]*locker.Locker, 0, len(dtos))
	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		lockers = append(lockers, l)
	}

	return lockers, nil
}
