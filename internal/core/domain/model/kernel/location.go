package kernel

import (
	"errors"
	"fmt"

	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

// Coordinate is a 1-based column or row index inside a locker cabinet.
type Coordinate int8

const (
	LocationMinColumn Coordinate = 1
	LocationMinRow    Coordinate = 1
	LocationMaxColumn Coordinate = 12
	LocationMaxRow    Coordinate = 8
)

// ErrLocationIsNotConstructed is returned when validating a zero-value Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is the physical slot of a locker in its cabinet, addressed by
// column and row. It is what a courier or recipient looks for on the wall.
//
// Location is an immutable value object; equal coordinates mean the same slot.
type Location struct { //nolint:recvcheck //using for validation
	column Coordinate
	row    Coordinate
	guard  guard.ConstructorGuard
}

// NewLocation creates a slot address after checking both coordinates are
// within the cabinet bounds.
//
// Parameters:
//   - column: 1..LocationMaxColumn
//   - row: 1..LocationMaxRow
//
// Returns:
//   - Location on success
//   - joined errs.ValueIsOutOfRangeError values otherwise
func NewLocation(column Coordinate, row Coordinate) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setColumn(column), loc.setRow(row)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// LocationForIndex lays lockers out column by column: index 0 is (1,1),
// index LocationMaxRow is (2,1), and so on. Provisioning uses it when the
// inventory file does not pin a slot.
func LocationForIndex(index int) (Location, error) {
	perColumn := int(LocationMaxRow - LocationMinRow + 1)
	column := Coordinate(index/perColumn) + LocationMinColumn
	row := Coordinate(index%perColumn) + LocationMinRow
	return NewLocation(column, row)
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Column() Coordinate {
	return l.column
}

func (l Location) Row() Coordinate {
	return l.row
}

// String renders the slot as "C03-R2".
func (l Location) String() string {
	return fmt.Sprintf("C%02d-R%d", l.column, l.row)
}

// IsEqual compares two constructed locations.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

func (l *Location) setColumn(column Coordinate) error {
	if column < LocationMinColumn || column > LocationMaxColumn {
		return errs.NewValueIsOutOfRangeError("column", column, LocationMinColumn, LocationMaxColumn)
	}

	l.column = column
	return nil
}

func (l *Location) setRow(row Coordinate) error {
	if row < LocationMinRow || row > LocationMaxRow {
		return errs.NewValueIsOutOfRangeError("row", row, LocationMinRow, LocationMaxRow)
	}

	l.row = row
	return nil
}
