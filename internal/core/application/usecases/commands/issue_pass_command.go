package commands

import (
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/pkg/guard"
)

var ErrIssuePassCommandIsNotConstructed = errors.New(
	"IssuePassCommand must be created via NewIssuePassCommand constructor",
)

// IssuePassCommand requests a fresh one-time pass for a parcel awaiting pickup.
type IssuePassCommand struct {
	parcelID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewIssuePassCommand(parcelID kernel.UUID) (IssuePassCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return IssuePassCommand{}, err
	}

	return IssuePassCommand{
		parcelID: parcelID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c IssuePassCommand) Validate() error {
	return c.guard.Validate(ErrIssuePassCommandIsNotConstructed)
}

func (c IssuePassCommand) ParcelID() kernel.UUID {
	return c.parcelID
}
