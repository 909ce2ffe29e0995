package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/core/domain"
)

func runWithPrincipal(mw echo.MiddlewareFunc, p *domain.Principal) (bool, error) {
	c, _ := newContext("")
	if p != nil {
		c.Set(PrincipalKey, *p)
	}
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRequireSuperuser(t *testing.T) {
	super := domain.Principal{UserID: uuid.New(), IsSuperuser: true, Authenticated: true}
	doctor := domain.Principal{UserID: uuid.New(), Role: domain.RoleDoctor, Authenticated: true}

	if called, err := runWithPrincipal(RequireSuperuser(), &super); !called || err != nil {
		t.Fatalf("superuser rejected: %v", err)
	}
	if _, err := runWithPrincipal(RequireSuperuser(), &doctor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := runWithPrincipal(RequireSuperuser(), nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	clinic := uuid.New()
	admin := domain.Principal{UserID: uuid.New(), Role: domain.RoleClinicAdmin, ClinicID: &clinic, Authenticated: true}
	doctor := domain.Principal{UserID: uuid.New(), Role: domain.RoleDoctor, Authenticated: true}

	mw := RequireRole(domain.RoleClinicAdmin)
	if called, err := runWithPrincipal(mw, &admin); !called || err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if _, err := runWithPrincipal(mw, &doctor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
