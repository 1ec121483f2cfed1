package locker

import (
	"errors"
	"fmt"
	"strings"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

const maxNumberLength = 32

var (
	// ErrLockerIsNotConstructed is returned when a Locker was not created through
	// NewLocker or RestoreLocker.
	ErrLockerIsNotConstructed = errors.New("Locker must be created via NewLocker or RestoreLocker constructor")

	// ErrNoLockerAvailable means no Available locker of the requested size exists.
	// Callers must not retry automatically against a different size.
	ErrNoLockerAvailable = errors.New("no locker available")

	// ErrLockerBusy means the locker holds or is reserved for a parcel.
	ErrLockerBusy = errors.New("locker is busy")

	// ErrInvalidTransition means a state change was requested that the state
	// machine does not allow. It signals a bug or corrupted storage.
	ErrInvalidTransition = errors.New("invalid locker state transition")
)

// ID is the stable identifier of a locker. Lower ids are preferred when
// several lockers could satisfy a reservation.
type ID int

// Validate rejects non-positive ids.
func (id ID) Validate() error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("lockerId", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}

// DefaultNumber renders the display label used when provisioning does not
// name a locker, e.g. 7 -> "L-007".
func DefaultNumber(id ID) string {
	return fmt.Sprintf("L-%03d", id)
}

// Locker is the aggregate for a single storage unit.
//
// Invariants:
//   - id is positive and never changes
//   - size class and location are fixed at provisioning time
//   - state changes only through Reserve, ConfirmOccupied, Release,
//     SetMaintenance and ClearMaintenance
//
// version is the optimistic concurrency token read from storage; repositories
// only persist a change when the stored version still matches.
type Locker struct {
	id       ID
	number   string
	size     kernel.SizeClass
	location kernel.Location
	state    State
	version  uint64

	guard guard.ConstructorGuard
}

// NewLocker provisions a new Available locker.
//
// Parameters:
//   - id: positive identifier
//   - number: display label such as "L-001" (required, at most 32 characters)
//   - size: the exact size class parcels must match
//   - location: the cabinet slot
//
// Returns:
//   - *Locker in Available state with version 0
//   - joined validation errors otherwise
//
// Example:
//
//	slot, _ := kernel.NewLocation(1, 1)
//	l, err := locker.NewLocker(1, "L-001", kernel.Medium, slot)
func NewLocker(id ID, number string, size kernel.SizeClass, location kernel.Location) (*Locker, error) {
	return RestoreLocker(id, number, size, location, Available, 0)
}

// RestoreLocker rebuilds a locker from persisted state. It performs the same
// validation as NewLocker and additionally checks the state.
func RestoreLocker(
	id ID,
	number string,
	size kernel.SizeClass,
	location kernel.Location,
	state State,
	version uint64,
) (*Locker, error) {
	l := &Locker{
		version: version,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setNumber(number),
		l.setSize(size),
		l.setLocation(location),
		l.setState(state),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate ensures the locker was built by a constructor.
func (l *Locker) Validate() error {
	if l == nil {
		return ErrLockerIsNotConstructed
	}
	return l.guard.Validate(ErrLockerIsNotConstructed)
}

func (l *Locker) ID() ID {
	return l.id
}

func (l *Locker) Number() string {
	return l.number
}

func (l *Locker) SizeClass() kernel.SizeClass {
	return l.size
}

func (l *Locker) Location() kernel.Location {
	return l.location
}

func (l *Locker) State() State {
	return l.state
}

// Version returns the optimistic concurrency token loaded with the aggregate.
func (l *Locker) Version() uint64 {
	return l.version
}

// Fits reports whether the locker is Available and of exactly the given size.
func (l *Locker) Fits(size kernel.SizeClass) bool {
	return l.state == Available && l.size == size
}

// Reserve holds an Available locker for an incoming parcel.
func (l *Locker) Reserve() error {
	next, err := l.state.Reserve()
	if err != nil {
		return l.wrap(err)
	}

	l.state = next
	return nil
}

// ConfirmOccupied records that the reserved parcel is now inside the locker.
func (l *Locker) ConfirmOccupied() error {
	next, err := l.state.Occupy()
	if err != nil {
		return l.wrap(err)
	}

	l.state = next
	return nil
}

// Release frees a Reserved or Occupied locker.
//
// Returns:
//   - changed=false, nil when the locker was already Available
//   - changed=true, nil when the state moved to Available
//   - an ErrInvalidTransition error for lockers under maintenance
func (l *Locker) Release() (bool, error) {
	return l.apply(l.state.Release)
}

// SetMaintenance takes an Available locker out of service. It fails with
// ErrLockerBusy while the locker is Reserved or Occupied.
func (l *Locker) SetMaintenance() (bool, error) {
	return l.apply(l.state.EnterMaintenance)
}

// ClearMaintenance returns a locker under maintenance to service.
func (l *Locker) ClearMaintenance() (bool, error) {
	return l.apply(l.state.LeaveMaintenance)
}

func (l *Locker) apply(transition func() (State, error)) (bool, error) {
	next, err := transition()
	if err != nil {
		return false, l.wrap(err)
	}

	changed := next != l.state
	l.state = next
	return changed, nil
}

func (l *Locker) wrap(err error) error {
	return fmt.Errorf("locker %d: %w", l.id, err)
}

func (l *Locker) setID(id ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Locker) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	if len(number) > maxNumberLength {
		return errs.NewValueIsOutOfRangeError("number length", len(number), 1, maxNumberLength)
	}
	l.number = number
	return nil
}

func (l *Locker) setSize(size kernel.SizeClass) error {
	if err := size.Validate(); err != nil {
		return err
	}
	l.size = size
	return nil
}

func (l *Locker) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	l.location = location
	return nil
}

func (l *Locker) setState(state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	l.state = state
	return nil
}
