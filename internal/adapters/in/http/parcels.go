package http

import (
	"errors"
	"net/http"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/application/usecases/queries"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// DepositParcel handles POST /api/v1/parcels.
func (s *Server) DepositParcel(c echo.Context) error {
	var req DepositParcelRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	size, err := kernel.ParseSizeClass(req.SizeClass)
	if err != nil {
		return err
	}

	issuePass := req.IssuePass == nil || *req.IssuePass
	cmd, err := commands.NewDepositParcelCommand(req.TrackingNumber, req.RecipientContact, size, issuePass)
	if err != nil {
		return err
	}

	result, err := s.handlers.DepositParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	response := DepositParcelResponse{
		ParcelID:     result.ParcelID.String(),
		LockerID:     int(result.LockerID),
		LockerNumber: result.LockerNumber,
	}
	if result.Pass != nil {
		expiresAt := result.Pass.ExpiresAt()
		response.OtpCode = result.Pass.Code()
		response.ExpiresAt = &expiresAt
	}

	return c.JSON(http.StatusCreated, response)
}

// GetParcel handles GET /api/v1/parcels/:id.
func (s *Server) GetParcel(c echo.Context) error {
	id, err := parcelIDParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetParcelQuery(id)
	if err != nil {
		return err
	}

	p, err := s.handlers.GetParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := ParcelResponse{
		ID:             p.ID.String(),
		TrackingNumber: p.TrackingNumber,
		Size:           p.Size.String(),
		Status:         p.Status.String(),
		LockerNumber:   p.LockerNumber,
		DepositTime:    p.DepositTime,
		PickupTime:     p.PickupTime,
		PassExpiresAt:  p.PassExpiresAt,
	}
	if p.LockerID != nil {
		lockerID := int(*p.LockerID)
		response.LockerID = &lockerID
	}

	return c.JSON(http.StatusOK, response)
}

// IssuePass handles POST /api/v1/parcels/:id/passes.
func (s *Server) IssuePass(c echo.Context) error {
	id, err := parcelIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewIssuePassCommand(id)
	if err != nil {
		return err
	}

	pass, err := s.handlers.IssuePass.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, PassResponse{Code: pass.Code(), ExpiresAt: pass.ExpiresAt()})
}

// ValidatePickup handles POST /api/v1/parcels/:id/pickup. Each attempt is
// counted towards a per-parcel lockout before the code is checked; a
// successful pickup clears the count.
func (s *Server) ValidatePickup(c echo.Context) error {
	id, err := parcelIDParam(c)
	if err != nil {
		return err
	}

	var req PickupRequest
	if err = decodeJSON(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewValidatePickupCommand(id, req.Code)
	if err != nil {
		return err
	}

	key := id.String()
	if !s.lockout.Attempt(key) {
		return errTooManyAttempts
	}

	lockerID, err := s.handlers.ValidatePickup.Handle(c.Request().Context(), cmd)
	switch {
	case errors.Is(err, parcel.ErrInvalidOtp):
		return err
	case err != nil:
		s.lockout.Refund(key)
		return err
	}

	s.lockout.Reset(key)
	return c.JSON(http.StatusOK, PickupResponse{Success: true, LockerID: int(lockerID)})
}

func parcelIDParam(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("parcelId", err)
	}
	return id, nil
}
