package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/core/authz"
	"github.com/cdms/clinic-system/internal/core/domain"
)

// RequireSuperuser rejects callers that are not authenticated superusers.
// It must run after Auth.
func RequireSuperuser() echo.MiddlewareFunc {
	return require(authz.IsSuperuser)
}

// RequireRole rejects callers whose role is not in allowedRoles.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return require(func(p domain.Principal) bool {
		_, ok := allowed[p.Role]
		return p.Authenticated && ok
	})
}

func require(allow func(domain.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if !authz.IsAuthenticated(p) {
				return domain.ErrUnauthenticated
			}
			if !allow(p) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
