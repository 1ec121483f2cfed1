package commands

import (
	"errors"
	"fmt"
	"time"

	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

// DefaultHoldPeriod is how long a deposited parcel waits before it expires.
const DefaultHoldPeriod = 72 * time.Hour

const defaultExpiryBatchSize = 100

var ErrExpireUncollectedParcelsCommandIsNotConstructed = errors.New(
	"ExpireUncollectedParcelsCommand must be created via NewExpireUncollectedParcelsCommand constructor",
)

// ExpireUncollectedParcelsCommand expires parcels deposited more than
// holdPeriod ago that were never picked up, freeing their lockers.
type ExpireUncollectedParcelsCommand struct {
	holdPeriod time.Duration
	batchSize  int
	guard      guard.ConstructorGuard
}

// NewExpireUncollectedParcelsCommand validates holdPeriod (> 0). A
// non-positive batchSize selects the default of 100 parcels per run.
func NewExpireUncollectedParcelsCommand(holdPeriod time.Duration, batchSize int) (ExpireUncollectedParcelsCommand, error) {
	if holdPeriod <= 0 {
		return ExpireUncollectedParcelsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"holdPeriod", fmt.Errorf("%s is not positive", holdPeriod))
	}
	if batchSize <= 0 {
		batchSize = defaultExpiryBatchSize
	}

	return ExpireUncollectedParcelsCommand{
		holdPeriod: holdPeriod,
		batchSize:  batchSize,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireUncollectedParcelsCommand) Validate() error {
	return c.guard.Validate(ErrExpireUncollectedParcelsCommandIsNotConstructed)
}

func (c ExpireUncollectedParcelsCommand) HoldPeriod() time.Duration {
	return c.holdPeriod
}

func (c ExpireUncollectedParcelsCommand) BatchSize() int {
	return c.batchSize
}
