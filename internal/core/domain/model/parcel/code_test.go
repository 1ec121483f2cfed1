package parcel_test

import (
	"bytes"
	"errors"
	"testing"

	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestRandomCodeGenerator_Generate(t *testing.T) {
	t.Run("codes are six digits", func(t *testing.T) {
		gen := parcel.RandomCodeGenerator{}

		for range 200 {
			code, err := gen.Generate()

			require.NoError(t, err)
			require.NoError(t, parcel.ValidateCode(code), code)
		}
	})

	t.Run("small values are zero padded", func(t *testing.T) {
		gen := parcel.RandomCodeGenerator{Source: bytes.NewReader(make([]byte, 64))}

		code, err := gen.Generate()

		require.NoError(t, err)
		assert.Equal(t, "000000", code)
	})

	t.Run("source failure is returned", func(t *testing.T) {
		gen := parcel.RandomCodeGenerator{Source: failingReader{}}

		code, err := gen.Generate()

		require.Error(t, err)
		assert.Empty(t, code)
		assert.Contains(t, err.Error(), "entropy exhausted")
	})
}

func TestValidateCode(t *testing.T) {
	for _, valid := range []string{"000000", "123456", "999999"} {
		require.NoError(t, parcel.ValidateCode(valid), valid)
	}

	for _, invalid := range []string{"", "12345", "1234567", "12a456", " 12345", "１２３４５６"} {
		err := parcel.ValidateCode(invalid)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid, invalid)
	}
}
