package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cdms/clinic-system/internal/core/authz"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// PatientService implements the patient registry.
type PatientService struct {
	patients ports.PatientRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewPatientService(patients ports.PatientRepository, users ports.UserRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{patients: patients, users: users, logger: logger, now: time.Now}
}

// CreatePatient records a patient. Only doctors may create patients; the
// owner is the caller unless an existing doctor is named explicitly.
func (s *PatientService) CreatePatient(ctx context.Context, caller domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	if !authz.IsDoctor(caller) {
		return nil, domain.ErrDoctorsOnly
	}

	owner := caller.UserID
	if in.DoctorID != nil && *in.DoctorID != caller.UserID {
		doctor, err := s.users.FindByID(ctx, *in.DoctorID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewValidationError("doctor", "must reference an existing doctor")
		}
		if err != nil {
			return nil, err
		}
		if !doctor.IsDoctor() {
			return nil, domain.NewValidationError("doctor", "must reference an existing doctor")
		}
		owner = doctor.ID
		s.logger.Warn().
			Str("caller_id", caller.UserID.String()).
			Str("doctor_id", owner.String()).
			Msg("patient created on behalf of another doctor")
	}

	patient := &domain.Patient{
		ID:          uuid.New(),
		DoctorID:    owner,
		FullName:    strings.TrimSpace(in.FullName),
		Gender:      in.Gender,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		Address:     in.Address,
		SSN:         in.SSN,
		CreatedAt:   s.now().UTC(),
	}
	if err := validatePatient(patient); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info().Str("patient_id", patient.ID.String()).Str("doctor_id", owner.String()).Msg("patient created")
	return patient, nil
}

// ListClinicPatients returns the patients of every doctor in clinicID. The
// caller must be staff of that clinic.
func (s *PatientService) ListClinicPatients(ctx context.Context, caller domain.Principal, clinicID uuid.UUID, filter domain.PatientFilter) ([]ports.ClinicPatient, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	if !authz.IsClinicStaffOf(caller, &clinicID) {
		return nil, domain.ErrForbidden
	}

	members, err := s.users.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.User, len(members))
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return []ports.ClinicPatient{}, nil
	}

	patients, err := s.patients.ListByDoctors(ctx, ids, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ports.ClinicPatient, 0, len(patients))
	for _, p := range patients {
		out = append(out, ports.ClinicPatient{Patient: p, Doctor: byID[p.DoctorID]})
	}
	return out, nil
}

// GetPatient returns a patient to its owning doctor only.
func (s *PatientService) GetPatient(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Patient, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsPatientDoctor(caller, patient) {
		return nil, domain.ErrNotPatientDoctor
	}
	return patient, nil
}

// UpdatePatient applies patch to a patient. Any doctor may edit; ownership is
// not checked, only logged.
func (s *PatientService) UpdatePatient(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	if !authz.IsDoctor(caller) {
		return nil, domain.ErrDoctorsOnly
	}

	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsPatientDoctor(caller, patient) {
		s.logger.Warn().
			Str("caller_id", caller.UserID.String()).
			Str("patient_id", id.String()).
			Str("doctor_id", patient.DoctorID.String()).
			Msg("patient edited by a doctor other than its owner")
	}

	if patch.FullName != nil {
		patient.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Gender != nil {
		patient.Gender = *patch.Gender
	}
	if patch.Phone != nil {
		patient.Phone = *patch.Phone
	}
	if patch.DateOfBirth != nil {
		patient.DateOfBirth = *patch.DateOfBirth
	}
	if patch.Address != nil {
		patient.Address = *patch.Address
	}
	if patch.SSN != nil {
		patient.SSN = *patch.SSN
	}
	if err := validatePatient(patient); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient removes a patient on behalf of the staff of clinicID. A nil
// clinicID denies every caller.
func (s *PatientService) DeletePatient(ctx context.Context, caller domain.Principal, clinicID *uuid.UUID, id uuid.UUID) error {
	if !authz.IsAuthenticated(caller) {
		return domain.ErrUnauthenticated
	}
	if !authz.IsClinicStaffOf(caller, clinicID) {
		return domain.ErrForbidden
	}

	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return err
	}
	doctor, err := s.users.FindByID(ctx, patient.DoctorID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if !domain.SameClinic(doctor.ClinicID, clinicID) {
		return domain.ErrForbidden
	}

	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Str("deleted_by", caller.UserID.String()).Msg("patient deleted")
	return nil
}

func validatePatient(p *domain.Patient) error {
	fields := map[string]string{}
	if p.FullName == "" {
		fields["full_name"] = "this field may not be blank"
	}
	if p.Gender != domain.GenderMale && p.Gender != domain.GenderFemale {
		fields["gender"] = "must be one of: M F"
	}
	if strings.TrimSpace(p.Phone) == "" {
		fields["phone"] = "this field may not be blank"
	}
	if strings.TrimSpace(p.Address) == "" {
		fields["address"] = "this field may not be blank"
	}
	if strings.TrimSpace(p.SSN) == "" {
		fields["ssn"] = "this field may not be blank"
	}
	if p.DateOfBirth.IsZero() {
		fields["date_of_birth"] = "this field is required"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
