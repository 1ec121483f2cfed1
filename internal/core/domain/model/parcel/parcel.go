package parcel

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

const (
	maxTrackingNumberLength   = 64
	maxRecipientContactLength = 128
)

var (
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

	// ErrDuplicateTracking means a parcel that is not Expired already uses the
	// tracking number.
	ErrDuplicateTracking = errors.New("duplicate tracking number")

	// ErrInvalidParcelState means the operation does not apply to the
	// parcel's current status.
	ErrInvalidParcelState = errors.New("invalid parcel state")

	// ErrInvalidOtp covers every failed pickup attempt: wrong code, consumed
	// pass, expired pass, or a parcel that is no longer waiting. Callers get no
	// hint which one it was.
	ErrInvalidOtp = errors.New("invalid or expired pickup code")
)

// Snapshot is the persisted form of a Parcel, used by RestoreParcel.
type Snapshot struct {
	ID               kernel.UUID
	TrackingNumber   string
	RecipientContact string
	SizeClass        kernel.SizeClass
	LockerID         *locker.ID
	Status           Status
	DepositTime      *time.Time
	PickupTime       *time.Time
	Version          uint64
	Passes           []*OneTimePass
}

// Parcel is the aggregate root for an item travelling through a locker.
//
// Invariants:
//   - lockerID != nil iff status is AwaitingPickup or PickedUp
//   - depositTime is set for AwaitingPickup and PickedUp, pickupTime for PickedUp
//   - every pass belongs to this parcel and at most one of them is unconsumed
type Parcel struct {
	id               kernel.UUID
	trackingNumber   string
	recipientContact string
	size             kernel.SizeClass
	lockerID         *locker.ID
	status           Status
	depositTime      *time.Time
	pickupTime       *time.Time
	version          uint64
	passes           []*OneTimePass

	guard guard.ConstructorGuard
}

// NewParcel registers a parcel that still has to be put into a locker.
//
// Parameters:
//   - trackingNumber: carrier reference, compared byte for byte (1..64 bytes)
//   - recipientContact: where pass codes are delivered (1..128 bytes)
//   - size: the size class the parcel needs
//
// Example:
//
//	p, err := parcel.NewParcel(kernel.NewUUID(), "TRK-001", "+254700000000", kernel.Medium)
//	if err != nil {
//	    return err
//	}
//	err = p.Deposit(lockerID, clock.Now())
func NewParcel(id kernel.UUID, trackingNumber, recipientContact string, size kernel.SizeClass) (*Parcel, error) {
	return RestoreParcel(Snapshot{
		ID:               id,
		TrackingNumber:   trackingNumber,
		RecipientContact: recipientContact,
		SizeClass:        size,
		Status:           AwaitingDeposit,
	})
}

// RestoreParcel rebuilds a parcel from storage and checks the aggregate
// invariants, so corrupted rows surface as errors instead of bad behavior.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		version: s.Version,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(s.ID),
		p.setTrackingNumber(s.TrackingNumber),
		p.setRecipientContact(s.RecipientContact),
		p.setSize(s.SizeClass),
		p.setStatus(s.Status),
	); err != nil {
		return nil, err
	}

	if err := p.setLifecycle(s.LockerID, s.DepositTime, s.PickupTime); err != nil {
		return nil, err
	}

	if err := p.setPasses(s.Passes); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) ID() kernel.UUID {
	return p.id
}

func (p *Parcel) TrackingNumber() string {
	return p.trackingNumber
}

func (p *Parcel) RecipientContact() string {
	return p.recipientContact
}

func (p *Parcel) SizeClass() kernel.SizeClass {
	return p.size
}

// LockerID returns the assigned locker and whether there is one.
func (p *Parcel) LockerID() (locker.ID, bool) {
	if p.lockerID == nil {
		return 0, false
	}
	return *p.lockerID, true
}

func (p *Parcel) Status() Status {
	return p.status
}

func (p *Parcel) DepositTime() *time.Time {
	return copyTime(p.depositTime)
}

func (p *Parcel) PickupTime() *time.Time {
	return copyTime(p.pickupTime)
}

func (p *Parcel) Version() uint64 {
	return p.version
}

// Passes returns the parcel's passes. The slice is a copy; the passes are not.
func (p *Parcel) Passes() []*OneTimePass {
	return slices.Clone(p.passes)
}

// Deposit binds the parcel to the locker it was placed in.
//
// Returns:
//   - nil on success; status becomes AwaitingPickup and depositTime is now
//   - ErrInvalidParcelState if the parcel was already deposited
func (p *Parcel) Deposit(lockerID locker.ID, now time.Time) error {
	if err := lockerID.Validate(); err != nil {
		return err
	}

	next, err := p.status.Deposit()
	if err != nil {
		return p.wrap(err)
	}

	p.status = next
	p.lockerID = &lockerID
	p.depositTime = &now
	return nil
}

// IssuePass replaces every unconsumed pass with a new one valid for ttl.
//
// Returns:
//   - the new pass
//   - ErrInvalidParcelState unless the parcel is AwaitingPickup
//   - validation errors for a malformed code or non-positive ttl
func (p *Parcel) IssuePass(passID kernel.UUID, code string, now time.Time, ttl time.Duration) (*OneTimePass, error) {
	if p.status != AwaitingPickup {
		return nil, p.wrap(fmt.Errorf("%w: cannot issue a pass while %s", ErrInvalidParcelState, p.status))
	}

	pass, err := NewOneTimePass(passID, p.id, code, now, now.Add(ttl))
	if err != nil {
		return nil, err
	}

	p.passes = slices.DeleteFunc(p.passes, func(existing *OneTimePass) bool {
		return !existing.IsConsumed()
	})
	p.passes = append(p.passes, pass)

	return pass, nil
}

// Redeem consumes the pass matching code and marks the parcel picked up.
// Every stored pass is compared, also after a match.
//
// Returns:
//   - the locker to release
//   - ErrInvalidOtp when the parcel is not AwaitingPickup or no usable pass
//     matches at now
func (p *Parcel) Redeem(code string, now time.Time) (locker.ID, error) {
	if p.status != AwaitingPickup || p.lockerID == nil {
		return 0, ErrInvalidOtp
	}

	var matched *OneTimePass
	for _, pass := range p.passes {
		if pass.Matches(code) && pass.IsUsable(now) && matched == nil {
			matched = pass
		}
	}
	if matched == nil {
		return 0, ErrInvalidOtp
	}

	next, err := p.status.PickUp()
	if err != nil {
		return 0, p.wrap(err)
	}

	matched.consume()
	p.status = next
	p.pickupTime = &now
	return *p.lockerID, nil
}

// Expire ends the hold of an uncollected parcel. The locker reference and all
// passes are dropped; the caller releases the returned locker.
func (p *Parcel) Expire() (locker.ID, error) {
	next, err := p.status.Expire()
	if err != nil {
		return 0, p.wrap(err)
	}

	freed := *p.lockerID
	p.status = next
	p.lockerID = nil
	p.passes = nil
	return freed, nil
}

// PruneExpiredPasses drops unconsumed passes whose expiry is before now and
// reports how many were removed.
func (p *Parcel) PruneExpiredPasses(now time.Time) int {
	before := len(p.passes)
	p.passes = slices.DeleteFunc(p.passes, func(pass *OneTimePass) bool {
		return !pass.IsConsumed() && pass.IsExpired(now)
	})
	return before - len(p.passes)
}

func (p *Parcel) wrap(err error) error {
	return fmt.Errorf("parcel %s: %w", p.id, err)
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	if len(trackingNumber) > maxTrackingNumberLength {
		return errs.NewValueIsOutOfRangeError("trackingNumber length", len(trackingNumber), 1, maxTrackingNumberLength)
	}
	p.trackingNumber = trackingNumber
	return nil
}

func (p *Parcel) setRecipientContact(contact string) error {
	if contact == "" {
		return errs.NewValueIsRequiredError("recipientContact")
	}
	if len(contact) > maxRecipientContactLength {
		return errs.NewValueIsOutOfRangeError("recipientContact length", len(contact), 1, maxRecipientContactLength)
	}
	p.recipientContact = contact
	return nil
}

func (p *Parcel) setSize(size kernel.SizeClass) error {
	if err := size.Validate(); err != nil {
		return err
	}
	p.size = size
	return nil
}

func (p *Parcel) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
	return nil
}

func (p *Parcel) setLifecycle(lockerID *locker.ID, depositTime, pickupTime *time.Time) error {
	switch {
	case p.status.HasLocker() && lockerID == nil:
		return errs.NewValueIsRequiredErrorWithCause("lockerId", fmt.Errorf("%s parcel has no locker", p.status))
	case !p.status.HasLocker() && lockerID != nil:
		return errs.NewValueIsInvalidErrorWithCause("lockerId", fmt.Errorf("%s parcel cannot hold a locker", p.status))
	}
	if lockerID != nil {
		if err := lockerID.Validate(); err != nil {
			return err
		}
	}
	if p.status.HasLocker() && depositTime == nil {
		return errs.NewValueIsRequiredError("depositTime")
	}
	if p.status == PickedUp && pickupTime == nil {
		return errs.NewValueIsRequiredError("pickupTime")
	}

	p.lockerID = lockerID
	p.depositTime = copyTime(depositTime)
	p.pickupTime = copyTime(pickupTime)
	return nil
}

func (p *Parcel) setPasses(passes []*OneTimePass) error {
	unconsumed := 0
	for _, pass := range passes {
		if err := pass.Validate(); err != nil {
			return err
		}
		if !pass.ParcelID().IsEqual(p.id) {
			return errs.NewValueIsInvalidErrorWithCause(
				"passes",
				fmt.Errorf("pass %s belongs to parcel %s", pass.ID(), pass.ParcelID()),
			)
		}
		if !pass.IsConsumed() {
			unconsumed++
		}
	}
	if unconsumed > 1 {
		return errs.NewValueIsInvalidErrorWithCause("passes", fmt.Errorf("%d unconsumed passes", unconsumed))
	}

	p.passes = slices.Clone(passes)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
