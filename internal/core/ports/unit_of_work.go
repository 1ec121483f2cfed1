package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one command. Repositories
// obtained after Begin share its transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active, which makes a
	// deferred Rollback after Commit harmless.
	Rollback(ctx context.Context) error

	LockerRepository() LockerRepository

	ParcelRepository() ParcelRepository
}
