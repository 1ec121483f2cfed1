package commands

import (
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

var ErrDepositParcelCommandIsNotConstructed = errors.New(
	"DepositParcelCommand must be created via NewDepositParcelCommand constructor",
)

// DepositParcelCommand puts a new parcel into a free locker of its size,
// optionally issuing the first pickup pass in the same transaction.
type DepositParcelCommand struct {
	trackingNumber   string
	recipientContact string
	size             kernel.SizeClass
	issuePass        bool

	guard guard.ConstructorGuard
}

func NewDepositParcelCommand(
	trackingNumber string,
	recipientContact string,
	size kernel.SizeClass,
	issuePass bool,
) (DepositParcelCommand, error) {
	if err := errors.Join(
		required("trackingNumber", trackingNumber),
		required("recipientContact", recipientContact),
		size.Validate(),
	); err != nil {
		return DepositParcelCommand{}, err
	}

	return DepositParcelCommand{
		trackingNumber:   trackingNumber,
		recipientContact: recipientContact,
		size:             size,
		issuePass:        issuePass,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c DepositParcelCommand) Validate() error {
	return c.guard.Validate(ErrDepositParcelCommandIsNotConstructed)
}

func (c DepositParcelCommand) TrackingNumber() string {
	return c.trackingNumber
}

func (c DepositParcelCommand) RecipientContact() string {
	return c.recipientContact
}

func (c DepositParcelCommand) SizeClass() kernel.SizeClass {
	return c.size
}

func (c DepositParcelCommand) IssuePass() bool {
	return c.issuePass
}

func required(param, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
