package queries

import (
	"context"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"

	"gorm.io/gorm"
)

type GetLockersQueryHandler struct {
	db *gorm.DB
}

func NewGetLockersQueryHandler(db *gorm.DB) GetLockersQueryHandler {
	return GetLockersQueryHandler{db: db}
}

// Handle returns an empty, non-nil slice when nothing matches.
func (h GetLockersQueryHandler) Handle(ctx context.Context, query GetLockersQuery) ([]GetLockersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	lockers := make([]GetLockersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			size,
			state,
			location_column,
			location_row
		FROM lockers
		WHERE ? = 0 OR size = ?
		ORDER BY number
	`, int(query.Size()), int(query.Size())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l           GetLockersQueryResponse
			id          int
			size, state int
			column, row int8
		)

		if err = rows.Scan(&id, &l.Number, &size, &state, &column, &row); err != nil {
			return nil, err
		}

		location, locErr := kernel.NewLocation(kernel.Coordinate(column), kernel.Coordinate(row))
		if locErr != nil {
			return nil, locErr
		}

		l.ID = locker.ID(id)
		l.Size = kernel.SizeClass(size)
		l.State = locker.State(state)
		l.Location = location
		lockers = append(lockers, l)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lockers, nil
}
