package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// UserRepository defines persistence for accounts. Create must enforce
// username uniqueness atomically and report a clash as domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// ListByClinic returns the members of clinicID ordered by creation.
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*domain.User, error)
	// Delete removes the account together with the patients it owns.
	Delete(ctx context.Context, id uuid.UUID) error
}
