package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// PrincipalKey is the echo context key holding the caller's domain.Principal.
const PrincipalKey = "principal"

// Authenticator resolves a bearer token to the caller's principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (domain.Principal, error)
}

// Principal returns the caller set by Auth or OptionalAuth, or the anonymous
// principal when neither ran.
func Principal(c echo.Context) domain.Principal {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Anonymous()
	}
	return p
}

// Auth requires a valid bearer token and stores the resolved principal.
func Auth(a Authenticator) echo.MiddlewareFunc {
	return authenticate(a, true)
}

// OptionalAuth resolves a bearer token when one is sent. Requests without an
// Authorization header continue as anonymous; a bad token is still rejected.
func OptionalAuth(a Authenticator) echo.MiddlewareFunc {
	return authenticate(a, false)
}

func authenticate(a Authenticator, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
				}
				c.Set(PrincipalKey, domain.Anonymous())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			p, err := a.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}
