package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/api/middleware"
	"github.com/cdms/clinic-system/internal/core/domain"
)

// principal returns the caller resolved by the auth middleware.
func principal(c echo.Context) domain.Principal {
	return middleware.Principal(c)
}

// pathID parses a uuid path parameter. A malformed id cannot name any record,
// so it is reported as not found.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
