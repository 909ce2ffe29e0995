package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "fields": {...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, fieldError("username", err)
	case errors.Is(err, domain.ErrClinicNameTaken):
		return http.StatusBadRequest, fieldError("name", err)
	case errors.Is(err, domain.ErrClinicEmailTaken):
		return http.StatusBadRequest, fieldError("email", err)

	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrCrossClinic),
		errors.Is(err, domain.ErrNotPatientDoctor):
		return http.StatusForbidden, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrClinicNotFound),
		errors.Is(err, domain.ErrPatientNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrDoctorsOnly),
		errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func fieldError(field string, err error) errorResponse {
	return errorResponse{Error: "validation failed", Fields: map[string]string{field: err.Error()}}
}
