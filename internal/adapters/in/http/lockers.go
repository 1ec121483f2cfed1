package http

import (
	"net/http"
	"strconv"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/application/usecases/queries"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// GetLockers handles GET /api/v1/lockers?size=.
func (s *Server) GetLockers(c echo.Context) error {
	size := kernel.UnknownSize
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := kernel.ParseSizeClass(raw)
		if err != nil {
			return err
		}
		size = parsed
	}

	query, err := queries.NewGetLockersQuery(size)
	if err != nil {
		return err
	}

	lockers, err := s.handlers.GetLockers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]LockerResponse, len(lockers))
	for i, l := range lockers {
		response[i] = LockerResponse{
			ID:       int(l.ID),
			Number:   l.Number,
			Size:     l.Size.String(),
			State:    l.State.String(),
			Location: l.Location.String(),
		}
	}

	return c.JSON(http.StatusOK, response)
}

// ReleaseLocker handles POST /api/v1/lockers/:id/release.
func (s *Server) ReleaseLocker(c echo.Context) error {
	id, err := lockerIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReleaseLockerCommand(id)
	if err != nil {
		return err
	}

	if err = s.handlers.ReleaseLocker.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// SetLockerMaintenance handles POST /api/v1/lockers/:id/maintenance.
func (s *Server) SetLockerMaintenance(c echo.Context) error {
	id, err := lockerIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSetLockerMaintenanceCommand(id)
	if err != nil {
		return err
	}

	if err = s.handlers.SetLockerMaintenance.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ClearLockerMaintenance handles DELETE /api/v1/lockers/:id/maintenance.
func (s *Server) ClearLockerMaintenance(c echo.Context) error {
	id, err := lockerIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewClearLockerMaintenanceCommand(id)
	if err != nil {
		return err
	}

	if err = s.handlers.ClearLockerMaintenance.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func lockerIDParam(c echo.Context) (locker.ID, error) {
	raw := c.Param("id")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("lockerId", err)
	}
	id := locker.ID(n)
	if err = id.Validate(); err != nil {
		return 0, err
	}
	return id, nil
}
