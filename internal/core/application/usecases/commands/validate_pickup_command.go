package commands

import (
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/guard"
)

var ErrValidatePickupCommandIsNotConstructed = errors.New(
	"ValidatePickupCommand must be created via NewValidatePickupCommand constructor",
)

// ValidatePickupCommand is a recipient's attempt to open a locker with a code.
type ValidatePickupCommand struct {
	parcelID kernel.UUID
	code     string
	guard    guard.ConstructorGuard
}

// NewValidatePickupCommand rejects codes that are not six digits before any
// storage is touched.
func NewValidatePickupCommand(parcelID kernel.UUID, code string) (ValidatePickupCommand, error) {
	if err := errors.Join(parcelID.Validate(), parcel.ValidateCode(code)); err != nil {
		return ValidatePickupCommand{}, err
	}

	return ValidatePickupCommand{
		parcelID: parcelID,
		code:     code,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ValidatePickupCommand) Validate() error {
	return c.guard.Validate(ErrValidatePickupCommandIsNotConstructed)
}

func (c ValidatePickupCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c ValidatePickupCommand) Code() string {
	return c.code
}
