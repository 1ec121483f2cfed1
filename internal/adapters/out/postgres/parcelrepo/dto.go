// Package parcelrepo maps Parcel aggregates and their passes to the parcels
// and one_time_passes tables.
package parcelrepo

import (
	"fmt"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO is one row of the parcels table.
//
// The partial unique index keeps tracking numbers unique among parcels that
// are not Expired (status 4). It backs up the in-process duplicate check when
// several instances share a database.
type ParcelDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber   string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_parcels_active_tracking,where:status <> 4"`
	RecipientContact string     `gorm:"type:varchar(128);not null"`
	Size             int        `gorm:"type:smallint;not null"`
	LockerID         *int       `gorm:"index"`
	Status           int        `gorm:"type:smallint;not null;index:idx_parcels_status_deposit,priority:1"`
	DepositTime      *time.Time `gorm:"index:idx_parcels_status_deposit,priority:2"`
	PickupTime       *time.Time
	Version          uint64    `gorm:"type:bigint;not null;default:0"`
	Passes           []PassDTO `gorm:"foreignKey:ParcelID;constraint:OnDelete:CASCADE"`
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

// PassDTO is one row of the one_time_passes table.
type PassDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParcelID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"type:varchar(6);not null"`
	IssuedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false"`
}

func (PassDTO) TableName() string {
	return "one_time_passes"
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:               p.ID().Bytes(),
		TrackingNumber:   p.TrackingNumber(),
		RecipientContact: p.RecipientContact(),
		Size:             int(p.SizeClass()),
		Status:           int(p.Status()),
		DepositTime:      utc(p.DepositTime()),
		PickupTime:       utc(p.PickupTime()),
		Version:          p.Version(),
		Passes:           passesFromDomain(p),
	}

	if id, ok := p.LockerID(); ok {
		raw := int(id)
		dto.LockerID = &raw
	}

	return dto
}

func passesFromDomain(p *parcel.Parcel) []PassDTO {
	passes := p.Passes()
	dtos := make([]PassDTO, 0, len(passes))
	for _, pass := range passes {
		dtos = append(dtos, PassDTO{
			ID:        pass.ID().Bytes(),
			ParcelID:  pass.ParcelID().Bytes(),
			Code:      pass.Code(),
			IssuedAt:  pass.IssuedAt().UTC(),
			ExpiresAt: pass.ExpiresAt().UTC(),
			Consumed:  pass.IsConsumed(),
		})
	}
	return dtos
}

// toDomain flattens restore errors with %v so that a bad row surfaces as a
// storage failure and never as a caller's validation error.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	p, err := restore(dto)
	if err != nil {
		return nil, fmt.Errorf("corrupted parcel row %s: %v", dto.ID, err)
	}
	return p, nil
}

func restore(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	passes := make([]*parcel.OneTimePass, 0, len(dto.Passes))
	for _, passDTO := range dto.Passes {
		pass, passErr := passToDomain(passDTO)
		if passErr != nil {
			return nil, passErr
		}
		passes = append(passes, pass)
	}

	var lockerID *locker.ID
	if dto.LockerID != nil {
		raw := locker.ID(*dto.LockerID)
		lockerID = &raw
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		ID:               id,
		TrackingNumber:   dto.TrackingNumber,
		RecipientContact: dto.RecipientContact,
		SizeClass:        kernel.SizeClass(dto.Size),
		LockerID:         lockerID,
		Status:           parcel.Status(dto.Status),
		DepositTime:      utc(dto.DepositTime),
		PickupTime:       utc(dto.PickupTime),
		Version:          dto.Version,
		Passes:           passes,
	})
}

func passToDomain(dto PassDTO) (*parcel.OneTimePass, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}

	return parcel.RestoreOneTimePass(id, parcelID, dto.Code, dto.IssuedAt.UTC(), dto.ExpiresAt.UTC(), dto.Consumed)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
