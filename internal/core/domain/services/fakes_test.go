package services_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"
)

// memLockerStore keeps lockers in memory and enforces the version
// compare-and-swap the real repositories perform.
type memLockerStore struct {
	mu      sync.Mutex
	lockers map[locker.ID]*locker.Locker

	updateErr error
	updates   int
}

func newMemLockerStore(lockers ...*locker.Locker) *memLockerStore {
	s := &memLockerStore{lockers: make(map[locker.ID]*locker.Locker)}
	for _, l := range lockers {
		s.lockers[l.ID()] = l
	}
	return s
}

func (s *memLockerStore) ListAvailable(_ context.Context, size kernel.SizeClass) ([]*locker.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*locker.Locker
	for _, l := range s.lockers {
		if l.Fits(size) {
			out = append(out, cloneLocker(l, l.Version()))
		}
	}
	slices.SortFunc(out, func(a, b *locker.Locker) int { return int(a.ID() - b.ID()) })
	return out, nil
}

func (s *memLockerStore) Get(_ context.Context, id locker.ID) (*locker.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lockers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("lockerId", id)
	}
	return cloneLocker(l, l.Version()), nil
}

func (s *memLockerStore) Update(_ context.Context, l *locker.Locker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.lockers[l.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("lockerId", l.ID())
	}
	if stored.Version() != l.Version() {
		return errs.NewVersionIsInvalidError("locker")
	}
	s.lockers[l.ID()] = cloneLocker(l, l.Version()+1)
	s.updates++
	return nil
}

func (s *memLockerStore) state(id locker.ID) locker.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockers[id].State()
}

func cloneLocker(l *locker.Locker, version uint64) *locker.Locker {
	c, err := locker.RestoreLocker(l.ID(), l.Number(), l.SizeClass(), l.Location(), l.State(), version)
	if err != nil {
		panic(err)
	}
	return c
}

type memParcelStore struct {
	mu      sync.Mutex
	parcels map[string]*parcel.Parcel

	addErr error
}

func newMemParcelStore() *memParcelStore {
	return &memParcelStore{parcels: make(map[string]*parcel.Parcel)}
}

func (s *memParcelStore) Add(_ context.Context, p *parcel.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addErr != nil {
		return s.addErr
	}
	for _, existing := range s.parcels {
		if existing.Status().IsActive() && existing.TrackingNumber() == p.TrackingNumber() {
			return parcel.ErrDuplicateTracking
		}
	}
	s.parcels[p.ID().String()] = cloneParcel(p, p.Version())
	return nil
}

func (s *memParcelStore) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parcels[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("parcelId", id)
	}
	return cloneParcel(p, p.Version()), nil
}

func (s *memParcelStore) Update(_ context.Context, p *parcel.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.parcels[p.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("parcelId", p.ID())
	}
	if stored.Version() != p.Version() {
		return errs.NewVersionIsInvalidError("parcel")
	}
	s.parcels[p.ID().String()] = cloneParcel(p, p.Version()+1)
	return nil
}

func (s *memParcelStore) ExistsActiveTracking(_ context.Context, trackingNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.parcels {
		if p.Status().IsActive() && p.TrackingNumber() == trackingNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *memParcelStore) DeleteExpiredPasses(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, p := range s.parcels {
		c := cloneParcel(p, p.Version())
		removed += int64(c.PruneExpiredPasses(before))
		s.parcels[id] = c
	}
	return removed, nil
}

func (s *memParcelStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parcels)
}

func cloneParcel(p *parcel.Parcel, version uint64) *parcel.Parcel {
	passes := make([]*parcel.OneTimePass, 0, len(p.Passes()))
	for _, pass := range p.Passes() {
		c, err := parcel.RestoreOneTimePass(pass.ID(), pass.ParcelID(), pass.Code(), pass.IssuedAt(), pass.ExpiresAt(), pass.IsConsumed())
		if err != nil {
			panic(err)
		}
		passes = append(passes, c)
	}

	var lockerID *locker.ID
	if id, ok := p.LockerID(); ok {
		lockerID = &id
	}

	c, err := parcel.RestoreParcel(parcel.Snapshot{
		ID:               p.ID(),
		TrackingNumber:   p.TrackingNumber(),
		RecipientContact: p.RecipientContact(),
		SizeClass:        p.SizeClass(),
		LockerID:         lockerID,
		Status:           p.Status(),
		DepositTime:      p.DepositTime(),
		PickupTime:       p.PickupTime(),
		Version:          version,
		Passes:           passes,
	})
	if err != nil {
		panic(err)
	}
	return c
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
}

func (s *sequenceCodes) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[0]
	s.codes = s.codes[1:]
	return code, nil
}

func provision(size kernel.SizeClass, from, count int) []*locker.Locker {
	out := make([]*locker.Locker, 0, count)
	for i := range count {
		id := locker.ID(from + i)
		loc, err := kernel.LocationForIndex(from + i - 1)
		if err != nil {
			panic(err)
		}
		l, err := locker.NewLocker(id, locker.DefaultNumber(id), size, loc)
		if err != nil {
			panic(err)
		}
		out = append(out, l)
	}
	return out
}
