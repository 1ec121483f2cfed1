package locker_test

import (
	"strings"
	"testing"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlot(t *testing.T) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(1, 1)
	require.NoError(t, err)
	return loc
}

func TestNewLocker(t *testing.T) {
	slot := newSlot(t)

	t.Run("should create available locker", func(t *testing.T) {
		l, err := locker.NewLocker(1, "L-001", kernel.Medium, slot)

		require.NoError(t, err)
		require.NoError(t, l.Validate())
		assert.Equal(t, locker.ID(1), l.ID())
		assert.Equal(t, "L-001", l.Number())
		assert.Equal(t, kernel.Medium, l.SizeClass())
		assert.Equal(t, slot, l.Location())
		assert.Equal(t, locker.Available, l.State())
		assert.Equal(t, uint64(0), l.Version())
	})

	t.Run("should trim number", func(t *testing.T) {
		l, err := locker.NewLocker(2, "  L-002 ", kernel.Small, slot)

		require.NoError(t, err)
		assert.Equal(t, "L-002", l.Number())
	})

	t.Run("should collect every validation error", func(t *testing.T) {
		var zeroSlot kernel.Location

		l, err := locker.NewLocker(0, "", kernel.UnknownSize, zeroSlot)

		require.Error(t, err)
		assert.Nil(t, l)
		assert.Contains(t, err.Error(), "lockerId")
		assert.Contains(t, err.Error(), "number")
		assert.Contains(t, err.Error(), "sizeClass")
		assert.Contains(t, err.Error(), "location must be created")
	})

	t.Run("should reject overlong number", func(t *testing.T) {
		_, err := locker.NewLocker(3, strings.Repeat("L", 33), kernel.Small, slot)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestoreLocker(t *testing.T) {
	slot := newSlot(t)

	t.Run("should restore state and version", func(t *testing.T) {
		l, err := locker.RestoreLocker(4, "L-004", kernel.Large, slot, locker.Occupied, 7)

		require.NoError(t, err)
		assert.Equal(t, locker.Occupied, l.State())
		assert.Equal(t, uint64(7), l.Version())
	})

	t.Run("should reject unknown state", func(t *testing.T) {
		_, err := locker.RestoreLocker(4, "L-004", kernel.Large, slot, locker.UnknownState, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestLocker_Validate(t *testing.T) {
	var nilLocker *locker.Locker
	assert.Equal(t, locker.ErrLockerIsNotConstructed, nilLocker.Validate())

	zero := &locker.Locker{}
	assert.Equal(t, locker.ErrLockerIsNotConstructed, zero.Validate())
}

func TestLocker_Lifecycle(t *testing.T) {
	// Given
	l, err := locker.NewLocker(10, "L-010", kernel.Medium, newSlot(t))
	require.NoError(t, err)
	require.True(t, l.Fits(kernel.Medium))
	require.False(t, l.Fits(kernel.Small))

	// When / Then: Available -> Reserved -> Occupied -> Available
	require.NoError(t, l.Reserve())
	assert.Equal(t, locker.Reserved, l.State())
	assert.False(t, l.Fits(kernel.Medium))

	require.NoError(t, l.ConfirmOccupied())
	assert.Equal(t, locker.Occupied, l.State())

	changed, err := l.Release()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, locker.Available, l.State())

	// Releasing again is a no-op
	changed, err = l.Release()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, locker.Available, l.State())
}

func TestLocker_ConfirmOccupiedRequiresReservation(t *testing.T) {
	l, err := locker.NewLocker(11, "L-011", kernel.Small, newSlot(t))
	require.NoError(t, err)

	err = l.ConfirmOccupied()

	require.ErrorIs(t, err, locker.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "locker 11")
	assert.Equal(t, locker.Available, l.State())
}

func TestLocker_Maintenance(t *testing.T) {
	t.Run("available locker goes in and out of maintenance", func(t *testing.T) {
		l, _ := locker.NewLocker(12, "L-012", kernel.Small, newSlot(t))

		changed, err := l.SetMaintenance()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, locker.Maintenance, l.State())
		assert.False(t, l.Fits(kernel.Small))

		changed, err = l.SetMaintenance()
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = l.Release()
		require.ErrorIs(t, err, locker.ErrInvalidTransition)

		require.ErrorIs(t, l.Reserve(), locker.ErrInvalidTransition)

		changed, err = l.ClearMaintenance()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, locker.Available, l.State())
	})

	t.Run("occupied locker is busy", func(t *testing.T) {
		l, _ := locker.RestoreLocker(13, "L-013", kernel.Small, newSlot(t), locker.Occupied, 1)

		_, err := l.SetMaintenance()
		require.ErrorIs(t, err, locker.ErrLockerBusy)

		_, err = l.ClearMaintenance()
		require.ErrorIs(t, err, locker.ErrLockerBusy)
		assert.Equal(t, locker.Occupied, l.State())
	})

	t.Run("reserved locker is busy", func(t *testing.T) {
		l, _ := locker.RestoreLocker(14, "L-014", kernel.Small, newSlot(t), locker.Reserved, 1)

		_, err := l.SetMaintenance()

		require.ErrorIs(t, err, locker.ErrLockerBusy)
	})
}

func TestDefaultNumber(t *testing.T) {
	assert.Equal(t, "L-001", locker.DefaultNumber(1))
	assert.Equal(t, "L-020", locker.DefaultNumber(20))
	assert.Equal(t, "L-1234", locker.DefaultNumber(1234))
}
