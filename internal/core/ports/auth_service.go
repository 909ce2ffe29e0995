package ports

import (
	"context"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// RegisterInput carries self-registration fields. Role and clinic are not
// part of it: registration always yields a solo doctor.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService covers account registration and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	CreateSuperuser(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	// Authenticate resolves an access token to the principal of a live account.
	Authenticate(ctx context.Context, accessToken string) (domain.Principal, error)
}
