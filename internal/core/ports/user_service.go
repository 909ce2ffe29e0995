package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// CreateStaffInput carries the fields of a clinic-scoped account. ClinicID is
// only honored for superuser callers; everyone else gets their own clinic.
type CreateStaffInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
	ClinicID  *uuid.UUID
}

// UserService covers account administration.
type UserService interface {
	ListUsers(ctx context.Context, caller domain.Principal) ([]*domain.User, error)
	CreateStaff(ctx context.Context, caller domain.Principal, in CreateStaffInput) (*domain.User, error)
	DeleteStaff(ctx context.Context, caller domain.Principal, clinicID, doctorID uuid.UUID) error
}
