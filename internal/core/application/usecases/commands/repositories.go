// Package commands contains the write side of the application: one command
// and one handler per operation. Handlers open a unit of work, serialize work
// on the same parcel, call the domain services and commit. Version conflicts
// are retried with a bounded back-off.
package commands

import (
	"context"

	"parcellocker/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	LockerRepoFactory interface {
		LockerRepository() ports.LockerRepository
	}

	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// LockerUoW is used by commands that only touch lockers.
	LockerUoW interface {
		TxManager
		LockerRepoFactory
	}

	LockerUoWFactory interface {
		Create() LockerUoW
	}

	// ParcelUoW is used by commands that only touch parcels and passes.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// UoW spans lockers and parcels, e.g. deposit and pickup.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   p, err := authorizer.Deposit(ctx, uow.LockerRepository(), uow.ParcelRepository(), ...)
	//   ...
	//   return uow.Commit(ctx)
	UoW interface {
		TxManager
		LockerRepoFactory
		ParcelRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// KeyLocker serializes work on the same key inside the process.
	// *keymutex.KeyedMutex implements it.
	KeyLocker interface {
		Lock(ctx context.Context, key string) (func(), error)
	}
)

func parcelKey(id string) string {
	return "parcel:" + id
}

func trackingKey(trackingNumber string) string {
	return "tracking:" + trackingNumber
}
