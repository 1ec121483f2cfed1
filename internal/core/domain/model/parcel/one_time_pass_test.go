package parcel_test

import (
	"testing"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOneTimePass(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(10 * time.Minute)
	passID := kernel.NewUUID()
	parcelID := kernel.NewUUID()

	t.Run("should create unconsumed pass", func(t *testing.T) {
		p, err := parcel.NewOneTimePass(passID, parcelID, "042137", issuedAt, expiresAt)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.True(t, p.ID().IsEqual(passID))
		assert.True(t, p.ParcelID().IsEqual(parcelID))
		assert.Equal(t, "042137", p.Code())
		assert.Equal(t, issuedAt, p.IssuedAt())
		assert.Equal(t, expiresAt, p.ExpiresAt())
		assert.False(t, p.IsConsumed())
	})

	t.Run("should reject bad input", func(t *testing.T) {
		var zero kernel.UUID

		p, err := parcel.NewOneTimePass(zero, zero, "12", issuedAt, issuedAt)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "parcelId")
		assert.Contains(t, err.Error(), "code")
		assert.Contains(t, err.Error(), "expiresAt")
	})
}

func TestOneTimePass_Usability(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(10 * time.Minute)

	p, err := parcel.NewOneTimePass(kernel.NewUUID(), kernel.NewUUID(), "123456", issuedAt, expiresAt)
	require.NoError(t, err)

	assert.True(t, p.IsUsable(issuedAt))
	assert.True(t, p.IsUsable(expiresAt), "expiry instant is still valid")
	assert.False(t, p.IsUsable(expiresAt.Add(time.Second)))
	assert.True(t, p.IsExpired(expiresAt.Add(time.Nanosecond)))

	consumed, err := parcel.RestoreOneTimePass(kernel.NewUUID(), kernel.NewUUID(), "123456", issuedAt, expiresAt, true)
	require.NoError(t, err)
	assert.False(t, consumed.IsUsable(issuedAt))
}

func TestOneTimePass_Matches(t *testing.T) {
	now := time.Now()
	p, err := parcel.NewOneTimePass(kernel.NewUUID(), kernel.NewUUID(), "007007", now, now.Add(time.Minute))
	require.NoError(t, err)

	assert.True(t, p.Matches("007007"))
	assert.False(t, p.Matches("7007"))
	assert.False(t, p.Matches("007008"))
	assert.False(t, p.Matches(""))
}

func TestOneTimePass_Validate(t *testing.T) {
	var nilPass *parcel.OneTimePass
	require.ErrorIs(t, nilPass.Validate(), parcel.ErrOneTimePassIsNotConstructed)
	require.ErrorIs(t, (&parcel.OneTimePass{}).Validate(), parcel.ErrOneTimePassIsNotConstructed)
}
