// Package queries contains the read side: query objects with constructor
// guards and handlers that read straight from the database into read models.
package queries

import (
	"errors"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/guard"
)

var ErrGetLockersQueryIsNotConstructed = errors.New(
	"GetLockersQuery must be created via NewGetLockersQuery constructor",
)

// GetLockersQuery lists lockers ordered by number, optionally only those of
// one size class.
//
// Example:
//
//	query, err := NewGetLockersQuery(kernel.Medium)
//	lockers, err := handler.Handle(ctx, query)
type GetLockersQuery struct {
	size kernel.SizeClass

	guard guard.ConstructorGuard
}

// NewGetLockersQuery accepts kernel.UnknownSize to list every locker.
func NewGetLockersQuery(size kernel.SizeClass) (GetLockersQuery, error) {
	if size != kernel.UnknownSize {
		if err := size.Validate(); err != nil {
			return GetLockersQuery{}, err
		}
	}

	return GetLockersQuery{size: size, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLockersQuery) Size() kernel.SizeClass {
	return q.size
}

func (q GetLockersQuery) Validate() error {
	return q.guard.Validate(ErrGetLockersQueryIsNotConstructed)
}

// GetLockersQueryResponse is the read model of one locker.
type GetLockersQueryResponse struct {
	ID       locker.ID
	Number   string
	Size     kernel.SizeClass
	State    locker.State
	Location kernel.Location
}
