// Package lockerrepo maps Locker aggregates to the lockers table.
package lockerrepo

import (
	"fmt"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
)

// LockerDTO is one row of the lockers table. Version is the compare-and-swap
// token; every successful Update increments it.
type LockerDTO struct {
	ID       int         `gorm:"primaryKey;autoIncrement:false"`
	Number   string      `gorm:"type:varchar(32);not null;uniqueIndex"`
	Size     int         `gorm:"type:smallint;not null;index:idx_lockers_size_state,priority:1"`
	State    int         `gorm:"type:smallint;not null;index:idx_lockers_size_state,priority:2"`
	Location LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Version  uint64      `gorm:"type:bigint;not null;default:0"`
}

func (LockerDTO) TableName() string {
	return "lockers"
}

// LocationDTO is the cabinet slot embedded into the lockers table.
type LocationDTO struct {
	Column kernel.Coordinate `gorm:"type:smallint"`
	Row    kernel.Coordinate `gorm:"type:smallint"`
}

func fromDomain(l *locker.Locker) LockerDTO {
	return LockerDTO{
		ID:     int(l.ID()),
		Number: l.Number(),
		Size:   int(l.SizeClass()),
		State:  int(l.State()),
		Location: LocationDTO{
			Column: l.Location().Column(),
			Row:    l.Location().Row(),
		},
		Version: l.Version(),
	}
}

// toDomain flattens restore errors with %v so that a bad row surfaces as a
// storage failure and never as a caller's validation error.
func toDomain(dto LockerDTO) (*locker.Locker, error) {
	l, err := restore(dto)
	if err != nil {
		return nil, fmt.Errorf("corrupted locker row %d: %v", dto.ID, err)
	}
	return l, nil
}

func restore(dto LockerDTO) (*locker.Locker, error) {
	loc, err := kernel.NewLocation(dto.Location.Column, dto.Location.Row)
	if err != nil {
		return nil, err
	}

	return locker.RestoreLocker(
		locker.ID(dto.ID),
		dto.Number,
		kernel.SizeClass(dto.Size),
		loc,
		locker.State(dto.State),
		dto.Version,
	)
}
