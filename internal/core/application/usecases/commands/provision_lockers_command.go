package commands

import (
	"errors"
	"fmt"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

var ErrProvisionLockersCommandIsNotConstructed = errors.New(
	"ProvisionLockersCommand must be created via NewProvisionLockersCommand constructor",
)

// LockerSpec describes one locker of the installed inventory.
type LockerSpec struct {
	ID       locker.ID
	Number   string
	Size     kernel.SizeClass
	Location kernel.Location
}

// ProvisionLockersCommand makes sure every listed locker exists.
type ProvisionLockersCommand struct {
	specs []LockerSpec
	guard guard.ConstructorGuard
}

// NewProvisionLockersCommand rejects an empty inventory and duplicate ids,
// numbers or slots.
func NewProvisionLockersCommand(specs []LockerSpec) (ProvisionLockersCommand, error) {
	if len(specs) == 0 {
		return ProvisionLockersCommand{}, errs.NewValueIsRequiredError("lockers")
	}

	ids := make(map[locker.ID]struct{}, len(specs))
	numbers := make(map[string]struct{}, len(specs))
	slots := make(map[kernel.Location]struct{}, len(specs))
	for _, s := range specs {
		if _, dup := ids[s.ID]; dup {
			return ProvisionLockersCommand{}, errs.NewValueIsInvalidErrorWithCause("lockers", fmt.Errorf("duplicate id %d", s.ID))
		}
		if _, dup := numbers[s.Number]; dup {
			return ProvisionLockersCommand{}, errs.NewValueIsInvalidErrorWithCause("lockers", fmt.Errorf("duplicate number %q", s.Number))
		}
		if _, dup := slots[s.Location]; dup {
			return ProvisionLockersCommand{}, errs.NewValueIsInvalidErrorWithCause("lockers", fmt.Errorf("duplicate location %s", s.Location))
		}
		ids[s.ID] = struct{}{}
		numbers[s.Number] = struct{}{}
		slots[s.Location] = struct{}{}
	}

	return ProvisionLockersCommand{
		specs: append([]LockerSpec(nil), specs...),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ProvisionLockersCommand) Validate() error {
	return c.guard.Validate(ErrProvisionLockersCommandIsNotConstructed)
}

func (c ProvisionLockersCommand) Specs() []LockerSpec {
	return append([]LockerSpec(nil), c.specs...)
}
