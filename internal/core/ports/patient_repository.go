package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// PatientRepository defines persistence for patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	// ListByDoctors returns the patients owned by any of doctorIDs that match
	// filter, ordered by creation time then id.
	ListByDoctors(ctx context.Context, doctorIDs []uuid.UUID, filter domain.PatientFilter) ([]*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
