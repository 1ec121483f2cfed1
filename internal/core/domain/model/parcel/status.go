package parcel

import (
	"fmt"

	"parcellocker/internal/pkg/errs"
)

// Status is the lifecycle state of a parcel.
//
// The numeric values are persisted; Expired must stay 4 because the partial
// unique index on tracking numbers filters on it.
type Status int

const (
	UnknownStatus Status = iota

	// AwaitingDeposit parcels are registered but not yet inside a locker.
	AwaitingDeposit

	// AwaitingPickup parcels sit in their locker until redeemed or expired.
	AwaitingPickup

	// PickedUp is final: the recipient redeemed a pass.
	PickedUp

	// Expired is final: the hold period ran out and the locker was freed.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus:   "Unknown",
		AwaitingDeposit: "AwaitingDeposit",
		AwaitingPickup:  "AwaitingPickup",
		PickedUp:        "PickedUp",
		Expired:         "Expired",
	}
}

func (s Status) Validate() error {
	switch s {
	case AwaitingDeposit, AwaitingPickup, PickedUp, Expired:
		return nil
	case UnknownStatus:
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid parcel status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// HasLocker reports whether a parcel in this status must reference a locker.
func (s Status) HasLocker() bool {
	return s == AwaitingPickup || s == PickedUp
}

// IsActive reports whether the parcel still counts for tracking number
// uniqueness. Only Expired parcels release their tracking number.
func (s Status) IsActive() bool {
	return s != Expired
}

// Deposit transitions AwaitingDeposit -> AwaitingPickup.
func (s Status) Deposit() (Status, error) {
	switch s {
	case AwaitingDeposit:
		return AwaitingPickup, nil
	case AwaitingPickup, PickedUp, Expired, UnknownStatus:
	}
	return 0, stateError(s, AwaitingPickup)
}

// PickUp transitions AwaitingPickup -> PickedUp.
func (s Status) PickUp() (Status, error) {
	switch s {
	case AwaitingPickup:
		return PickedUp, nil
	case AwaitingDeposit, PickedUp, Expired, UnknownStatus:
	}
	return 0, stateError(s, PickedUp)
}

// Expire transitions AwaitingPickup -> Expired.
func (s Status) Expire() (Status, error) {
	switch s {
	case AwaitingPickup:
		return Expired, nil
	case AwaitingDeposit, PickedUp, Expired, UnknownStatus:
	}
	return 0, stateError(s, Expired)
}

func stateError(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidParcelState, from, to)
}
