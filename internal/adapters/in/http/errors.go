package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"
	"parcellocker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	errMalformedBody   = errors.New("malformed request body")
	errTooManyAttempts = errors.New("too many failed pickup attempts")
)

const (
	retryAfterNoLocker = "60"
	retryAfterConflict = "1"
)

// NewErrorHandler maps domain and validation errors onto status codes.
// Anything unrecognised is a 500 with an opaque message; the cause is logged.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message, retryAfter := classify(err)
		if status >= http.StatusInternalServerError && retryAfter == "" {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		if retryAfter != "" {
			c.Response().Header().Set(echo.HeaderRetryAfter, retryAfter)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorResponse{Code: status, Message: message})
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

// classify returns the status, the client-facing message and, for transient
// failures, a Retry-After value in seconds. Order matters: a duplicate
// tracking number joined with a failed locker rollback is still a 409.
func classify(err error) (int, string, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message), ""
	}

	switch {
	case errors.Is(err, errMalformedBody),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error(), ""
	case errors.Is(err, parcel.ErrDuplicateTracking):
		return http.StatusConflict, parcel.ErrDuplicateTracking.Error(), ""
	case errors.Is(err, parcel.ErrInvalidOtp):
		return http.StatusUnprocessableEntity, parcel.ErrInvalidOtp.Error(), ""
	case errors.Is(err, parcel.ErrInvalidParcelState):
		return http.StatusUnprocessableEntity, err.Error(), ""
	case errors.Is(err, locker.ErrLockerBusy):
		return http.StatusLocked, locker.ErrLockerBusy.Error(), ""
	case errors.Is(err, locker.ErrNoLockerAvailable):
		return http.StatusServiceUnavailable, locker.ErrNoLockerAvailable.Error(), retryAfterNoLocker
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusServiceUnavailable, "concurrent update, try again", retryAfterConflict
	case errors.Is(err, errTooManyAttempts):
		return http.StatusTooManyRequests, errTooManyAttempts.Error(), ""
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), ""
	}
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errMalformedBody)
	}
	return nil
}
