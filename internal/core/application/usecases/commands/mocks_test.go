package commands_test

import (
	"context"
	"time"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockLockerRepository struct{ mock.Mock }

func (m *MockLockerRepository) Add(ctx context.Context, l *locker.Locker) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLockerRepository) Update(ctx context.Context, l *locker.Locker) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLockerRepository) Get(ctx context.Context, id locker.ID) (*locker.Locker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*locker.Locker), args.Error(1)
}

func (m *MockLockerRepository) ListAvailable(ctx context.Context, size kernel.SizeClass) ([]*locker.Locker, error) {
	args := m.Called(ctx, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*locker.Locker), args.Error(1)
}

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) ExistsActiveTracking(ctx context.Context, trackingNumber string) (bool, error) {
	args := m.Called(ctx, trackingNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockParcelRepository) HasParcelInLocker(ctx context.Context, lockerID locker.ID) (bool, error) {
	args := m.Called(ctx, lockerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParcelRepository) ListUncollected(ctx context.Context, before time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockParcelRepository) DeleteExpiredPasses(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies commands.UoW, commands.LockerUoW and commands.ParcelUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) LockerRepository() ports.LockerRepository {
	args := m.Called()
	return args.Get(0).(ports.LockerRepository)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLockerUoWFactory struct{ mock.Mock }

func (m *MockLockerUoWFactory) Create() commands.LockerUoW {
	args := m.Called()
	return args.Get(0).(commands.LockerUoW)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}

type MockPassNotifier struct{ mock.Mock }

func (m *MockPassNotifier) NotifyPassIssued(ctx context.Context, event ports.PassIssuedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedCodes struct{ code string }

func (c fixedCodes) Generate() (string, error) { return c.code, nil }

var (
	fastRetry = commands.RetryPolicy{MaxAttempts: 3, Interval: time.Millisecond}
	noRetry   = commands.RetryPolicy{MaxAttempts: 1, Interval: time.Millisecond}
)

func newTestLocker(id locker.ID, size kernel.SizeClass, state locker.State, version uint64) *locker.Locker {
	loc, err := kernel.LocationForIndex(int(id) - 1)
	if err != nil {
		panic(err)
	}
	l, err := locker.RestoreLocker(id, locker.DefaultNumber(id), size, loc, state, version)
	if err != nil {
		panic(err)
	}
	return l
}

func newAwaitingParcel(lockerID locker.ID, deposited time.Time) *parcel.Parcel {
	p, err := parcel.RestoreParcel(parcel.Snapshot{
		ID:               kernel.NewUUID(),
		TrackingNumber:   "TRK-001",
		RecipientContact: "+254700000000",
		SizeClass:        kernel.Medium,
		LockerID:         &lockerID,
		Status:           parcel.AwaitingPickup,
		DepositTime:      &deposited,
	})
	if err != nil {
		panic(err)
	}
	return p
}
