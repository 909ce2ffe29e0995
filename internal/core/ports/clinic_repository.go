package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// ClinicRepository defines persistence for clinics. Create and Update must
// enforce name and email uniqueness atomically and report clashes as
// domain.ErrClinicNameTaken / domain.ErrClinicEmailTaken.
type ClinicRepository interface {
	Create(ctx context.Context, clinic *domain.Clinic) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Clinic, error)
	List(ctx context.Context) ([]*domain.Clinic, error)
	Update(ctx context.Context, clinic *domain.Clinic) error
	// Delete removes the clinic and clears the clinic reference of its members.
	Delete(ctx context.Context, id uuid.UUID) error
}
