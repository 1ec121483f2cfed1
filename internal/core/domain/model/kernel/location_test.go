package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/pkg/errs"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name    string
		column  kernel.Coordinate
		row     kernel.Coordinate
		wantErr bool
	}{
		{name: "valid location", column: 3, row: 2},
		{name: "valid location at min bounds", column: kernel.LocationMinColumn, row: kernel.LocationMinRow},
		{name: "valid location at max bounds", column: kernel.LocationMaxColumn, row: kernel.LocationMaxRow},
		{name: "column too small", column: kernel.LocationMinColumn - 1, row: 2, wantErr: true},
		{name: "column too large", column: kernel.LocationMaxColumn + 1, row: 2, wantErr: true},
		{name: "row too small", column: 3, row: kernel.LocationMinRow - 1, wantErr: true},
		{name: "row too large", column: 3, row: kernel.LocationMaxRow + 1, wantErr: true},
		{name: "both invalid", column: 0, row: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.column, tt.row)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Zero(t, loc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.column, loc.Column())
			assert.Equal(t, tt.row, loc.Row())
			assert.NoError(t, loc.Validate())
		})
	}
}

func TestNewLocation_ReportsBothCoordinates(t *testing.T) {
	_, err := kernel.NewLocation(0, kernel.LocationMaxRow+1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is column")
	assert.Contains(t, err.Error(), "is row")
}

func TestLocationForIndex(t *testing.T) {
	perColumn := int(kernel.LocationMaxRow)

	tests := []struct {
		index      int
		wantColumn kernel.Coordinate
		wantRow    kernel.Coordinate
	}{
		{index: 0, wantColumn: 1, wantRow: 1},
		{index: 1, wantColumn: 1, wantRow: 2},
		{index: perColumn - 1, wantColumn: 1, wantRow: kernel.LocationMaxRow},
		{index: perColumn, wantColumn: 2, wantRow: 1},
		{index: 19, wantColumn: 3, wantRow: 4},
	}

	for _, tt := range tests {
		loc, err := kernel.LocationForIndex(tt.index)

		require.NoError(t, err)
		assert.Equal(t, tt.wantColumn, loc.Column(), "index %d", tt.index)
		assert.Equal(t, tt.wantRow, loc.Row(), "index %d", tt.index)
	}

	t.Run("index beyond cabinet capacity fails", func(t *testing.T) {
		capacity := int(kernel.LocationMaxColumn) * perColumn

		_, err := kernel.LocationForIndex(capacity)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestLocation_Validate(t *testing.T) {
	t.Run("zero value location", func(t *testing.T) {
		var loc kernel.Location

		err := loc.Validate()

		assert.Equal(t, kernel.ErrLocationIsNotConstructed, err)
	})
}

func TestLocation_String(t *testing.T) {
	loc, err := kernel.NewLocation(3, 7)
	require.NoError(t, err)

	assert.Equal(t, "C03-R7", loc.String())
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation(4, 4)
	b, _ := kernel.NewLocation(4, 4)
	c, _ := kernel.NewLocation(4, 5)

	t.Run("same coordinates are equal", func(t *testing.T) {
		eq, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, eq)
	})

	t.Run("different coordinates are not equal", func(t *testing.T) {
		eq, err := a.IsEqual(c)

		require.NoError(t, err)
		assert.False(t, eq)
	})

	t.Run("zero value cannot be compared", func(t *testing.T) {
		var zero kernel.Location

		_, err := a.IsEqual(zero)

		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}
