package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("locker id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("lockerId", locker.ID(17))

		assert.Equal(t, "lockerId", err.ParamName)
		assert.Equal(t, locker.ID(17), err.ID)
		assert.Equal(t, "object not found: 17", err.Error())
	})

	t.Run("parcel id survives wrapping", func(t *testing.T) {
		id := kernel.NewUUID()
		err := fmt.Errorf("issue pass: %w", errs.NewObjectNotFoundError("parcelId", id))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "parcelId", notFound.ParamName)
		assert.Equal(t, "issue pass: object not found: "+id.String(), err.Error())
	})

	t.Run("cause is reported but not matched", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("parcelId", "TRK-1", cause)

		assert.Equal(t, "object not found: param is: parcelId, ID is: TRK-1 (cause: record not found)", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.NotErrorIs(t, err, cause)
	})
}

func TestSanitize(t *testing.T) {
	t.Run("caller supplied id is kept on one line", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("trackingNumber", "TRK-1\nlevel=error msg=forged")

		assert.Equal(t, "object not found: TRK-1 level=error msg=forged", err.Error())
	})

	t.Run("range bounds and value", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("row", "1\n2", 1, 12)

		assert.Equal(t, "value is invalid: 1 2 is row, min value is 1, max value is 12", err.Error())
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("joined field errors match every sentinel", func(t *testing.T) {
		err := errors.Join(
			errs.NewValueIsRequiredError("trackingNumber"),
			errs.NewValueIsInvalidError("sizeClass"),
			errs.NewValueIsOutOfRangeError("column", 150, 1, 12),
		)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t,
			"value is required: trackingNumber\nvalue is invalid: sizeClass\nvalue is invalid: 150 is column, min value is 1, max value is 12",
			err.Error())
	})

	t.Run("out of range reads as invalid but matches its own sentinel", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("row", -5, 1, 8, errors.New("below grid"))

		assert.Equal(t, "value is invalid: -5 is row, min value is 1, max value is 8 (cause: below grid)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.NotErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("invalid with cause", func(t *testing.T) {
		cause := errors.New("invalid UUID length: 3")
		err := errs.NewValueIsInvalidErrorWithCause("parcelId", cause)

		assert.Equal(t, "value is invalid: parcelId (cause: invalid UUID length: 3)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("required with cause", func(t *testing.T) {
		err := errs.NewValueIsRequiredErrorWithCause("recipientContact", errors.New("blank"))

		assert.Equal(t, "value is required: recipientContact (cause: blank)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestVersionIsInvalidError(t *testing.T) {
	t.Run("conflict is found through layers of wrapping", func(t *testing.T) {
		conflict := errs.NewVersionIsInvalidError("locker")
		err := fmt.Errorf("deposit TRK-1: %w", fmt.Errorf("reserve locker 4: %w", conflict))

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		var version *errs.VersionIsInvalidError
		require.ErrorAs(t, err, &version)
		assert.Equal(t, "locker", version.ParamName)
		assert.Equal(t, "deposit TRK-1: reserve locker 4: version is invalid: locker", err.Error())
	})

	t.Run("joined with a rollback failure", func(t *testing.T) {
		err := errors.Join(
			errs.NewVersionIsInvalidErrorWithCause("parcel", errors.New("stale version 3")),
			errors.New("release locker 4: write failed"),
		)

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		assert.Contains(t, err.Error(), "version is invalid: parcel (cause: stale version 3)")
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		errs.ErrVersionIsInvalid,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "%v must not match %v", a, b)
			}
		}
	}
}
