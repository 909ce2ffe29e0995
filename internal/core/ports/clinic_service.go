package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// ClinicInput carries clinic fields for create.
type ClinicInput struct {
	Name          string
	Email         string
	Description   string
	Address       string
	Phone         string
	IsIndependent *bool
}

// ClinicPatch carries clinic fields for update. Nil fields are left unchanged.
type ClinicPatch struct {
	Name          *string
	Email         *string
	Description   *string
	Address       *string
	Phone         *string
	IsIndependent *bool
}

// ClinicDetail is a clinic together with its staff split by role.
type ClinicDetail struct {
	Clinic  *domain.Clinic
	Members domain.ClinicMembers
}

// ClinicService covers the clinic registry.
type ClinicService interface {
	ListClinics(ctx context.Context, caller domain.Principal) ([]ClinicDetail, error)
	CreateClinic(ctx context.Context, caller domain.Principal, in ClinicInput) (*domain.Clinic, error)
	GetClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) (*ClinicDetail, error)
	UpdateClinic(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ClinicPatch) (*domain.Clinic, error)
	DeleteClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) error
}
