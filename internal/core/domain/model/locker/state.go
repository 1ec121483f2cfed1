package locker

import (
	"fmt"

	"parcellocker/internal/pkg/errs"
)

// State is the occupancy state of a locker.
//
// State transitions:
//
//	Available ──Reserve──> Reserved ──Occupy──> Occupied
//	  ^   │                   │                    │
//	  │   │                   └──────Release───────┤
//	  │   └──EnterMaintenance──> Maintenance       │
//	  ├─────LeaveMaintenance─────────┘             │
//	  └────────────────────Release─────────────────┘
//
// Maintenance is reachable only from Available and returns to Available only
// through ClearMaintenance.
type State int

const (
	// UnknownState catches uninitialized values and is never valid.
	UnknownState State = iota

	// Available lockers can be reserved.
	Available

	// Reserved lockers are held for a parcel that has not been confirmed yet.
	Reserved

	// Occupied lockers hold a parcel awaiting pickup.
	Occupied

	// Maintenance lockers are out of service.
	Maintenance
)

func getStateStrings() map[State]string {
	return map[State]string{
		UnknownState: "Unknown",
		Available:    "Available",
		Reserved:     "Reserved",
		Occupied:     "Occupied",
		Maintenance:  "Maintenance",
	}
}

// Validate reports whether s is one of the four real states.
func (s State) Validate() error {
	switch s {
	case Available, Reserved, Occupied, Maintenance:
		return nil
	case UnknownState:
	}
	return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid locker state", s))
}

// String returns the state name, "Unknown" for invalid values.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsInUse reports whether a parcel holds the locker (Reserved or Occupied).
func (s State) IsInUse() bool {
	return s == Reserved || s == Occupied
}

// Reserve transitions Available -> Reserved.
//
// Returns:
//   - (Reserved, nil) from Available
//   - (0, ErrInvalidTransition) from any other state
func (s State) Reserve() (State, error) {
	switch s {
	case Available:
		return Reserved, nil
	case Reserved, Occupied, Maintenance, UnknownState:
	}
	return 0, transitionError(s, Reserved)
}

// Occupy transitions Reserved -> Occupied. No other state may become
// Occupied, so every deposit passes through Reserved first.
func (s State) Occupy() (State, error) {
	switch s {
	case Reserved:
		return Occupied, nil
	case Available, Occupied, Maintenance, UnknownState:
	}
	return 0, transitionError(s, Occupied)
}

// Release transitions Reserved or Occupied -> Available.
//
// Releasing an Available locker is allowed and returns Available unchanged;
// callers compare the result with the receiver to detect the no-op.
// A locker under maintenance cannot be released; it must be cleared.
func (s State) Release() (State, error) {
	switch s {
	case Reserved, Occupied, Available:
		return Available, nil
	case Maintenance, UnknownState:
	}
	return 0, transitionError(s, Available)
}

// EnterMaintenance transitions Available -> Maintenance.
//
// Returns:
//   - (Maintenance, nil) from Available or Maintenance
//   - (0, ErrLockerBusy) while Reserved or Occupied
//   - (0, ErrInvalidTransition) for invalid states
func (s State) EnterMaintenance() (State, error) {
	switch s {
	case Available, Maintenance:
		return Maintenance, nil
	case Reserved, Occupied:
		return 0, fmt.Errorf("%w: locker is %s", ErrLockerBusy, s)
	case UnknownState:
	}
	return 0, transitionError(s, Maintenance)
}

// LeaveMaintenance transitions Maintenance -> Available. Clearing an
// Available locker is a no-op; clearing a locker in use fails with ErrLockerBusy.
func (s State) LeaveMaintenance() (State, error) {
	switch s {
	case Maintenance, Available:
		return Available, nil
	case Reserved, Occupied:
		return 0, fmt.Errorf("%w: locker is %s", ErrLockerBusy, s)
	case UnknownState:
	}
	return 0, transitionError(s, Available)
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
