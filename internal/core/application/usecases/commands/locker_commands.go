package commands

import (
	"errors"

	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/guard"
)

var (
	ErrReleaseLockerCommandIsNotConstructed = errors.New(
		"ReleaseLockerCommand must be created via NewReleaseLockerCommand constructor",
	)
	ErrSetLockerMaintenanceCommandIsNotConstructed = errors.New(
		"SetLockerMaintenanceCommand must be created via NewSetLockerMaintenanceCommand constructor",
	)
	ErrClearLockerMaintenanceCommandIsNotConstructed = errors.New(
		"ClearLockerMaintenanceCommand must be created via NewClearLockerMaintenanceCommand constructor",
	)
)

// ReleaseLockerCommand is the operator action that frees a locker.
type ReleaseLockerCommand struct {
	lockerID locker.ID
	guard    guard.ConstructorGuard
}

func NewReleaseLockerCommand(lockerID locker.ID) (ReleaseLockerCommand, error) {
	if err := lockerID.Validate(); err != nil {
		return ReleaseLockerCommand{}, err
	}
	return ReleaseLockerCommand{lockerID: lockerID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReleaseLockerCommand) Validate() error {
	return c.guard.Validate(ErrReleaseLockerCommandIsNotConstructed)
}

func (c ReleaseLockerCommand) LockerID() locker.ID {
	return c.lockerID
}

// SetLockerMaintenanceCommand takes a locker out of service.
type SetLockerMaintenanceCommand struct {
	lockerID locker.ID
	guard    guard.ConstructorGuard
}

func NewSetLockerMaintenanceCommand(lockerID locker.ID) (SetLockerMaintenanceCommand, error) {
	if err := lockerID.Validate(); err != nil {
		return SetLockerMaintenanceCommand{}, err
	}
	return SetLockerMaintenanceCommand{lockerID: lockerID, guard: guard.NewConstructorGuard()}, nil
}

func (c SetLockerMaintenanceCommand) Validate() error {
	return c.guard.Validate(ErrSetLockerMaintenanceCommandIsNotConstructed)
}

func (c SetLockerMaintenanceCommand) LockerID() locker.ID {
	return c.lockerID
}

// ClearLockerMaintenanceCommand puts a locker back into service.
type ClearLockerMaintenanceCommand struct {
	lockerID locker.ID
	guard    guard.ConstructorGuard
}

func NewClearLockerMaintenanceCommand(lockerID locker.ID) (ClearLockerMaintenanceCommand, error) {
	if err := lockerID.Validate(); err != nil {
		return ClearLockerMaintenanceCommand{}, err
	}
	return ClearLockerMaintenanceCommand{lockerID: lockerID, guard: guard.NewConstructorGuard()}, nil
}

func (c ClearLockerMaintenanceCommand) Validate() error {
	return c.guard.Validate(ErrClearLockerMaintenanceCommandIsNotConstructed)
}

func (c ClearLockerMaintenanceCommand) LockerID() locker.ID {
	return c.lockerID
}
