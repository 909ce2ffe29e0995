package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// CreatePatientInput carries patient fields. DoctorID is optional; when nil
// the caller becomes the owner.
type CreatePatientInput struct {
	DoctorID    *uuid.UUID
	FullName    string
	Gender      domain.Gender
	Phone       string
	DateOfBirth time.Time
	Address     string
	SSN         string
}

// PatientPatch carries patient fields for edit. Nil fields are left unchanged.
// The owning doctor is not editable.
type PatientPatch struct {
	FullName    *string
	Gender      *domain.Gender
	Phone       *string
	DateOfBirth *time.Time
	Address     *string
	SSN         *string
}

// ClinicPatient is a patient listed under a clinic together with its doctor.
type ClinicPatient struct {
	Patient *domain.Patient
	Doctor  *domain.User
}

// PatientService covers the patient registry.
type PatientService interface {
	CreatePatient(ctx context.Context, caller domain.Principal, in CreatePatientInput) (*domain.Patient, error)
	ListClinicPatients(ctx context.Context, caller domain.Principal, clinicID uuid.UUID, filter domain.PatientFilter) ([]ClinicPatient, error)
	GetPatient(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, caller domain.Principal, id uuid.UUID, patch PatientPatch) (*domain.Patient, error)
	// DeletePatient is keyed on the clinic id of the route; a nil clinicID
	// denies every caller.
	DeletePatient(ctx context.Context, caller domain.Principal, clinicID *uuid.UUID, id uuid.UUID) error
}
