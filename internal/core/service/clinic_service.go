package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cdms/clinic-system/internal/core/authz"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// ClinicService implements the clinic registry.
type ClinicService struct {
	clinics ports.ClinicRepository
	users   ports.UserRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewClinicService(clinics ports.ClinicRepository, users ports.UserRepository, logger zerolog.Logger) *ClinicService {
	return &ClinicService{clinics: clinics, users: users, logger: logger, now: time.Now}
}

func requireSuperuser(caller domain.Principal) error {
	if !authz.IsAuthenticated(caller) {
		return domain.ErrUnauthenticated
	}
	if !authz.IsSuperuser(caller) {
		return domain.ErrForbidden
	}
	return nil
}

// ListClinics returns every clinic with its staff. Superusers only.
func (s *ClinicService) ListClinics(ctx context.Context, caller domain.Principal) ([]ports.ClinicDetail, error) {
	if err := requireSuperuser(caller); err != nil {
		return nil, err
	}
	clinics, err := s.clinics.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ClinicDetail, 0, len(clinics))
	for _, c := range clinics {
		members, err := s.users.ListByClinic(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ports.ClinicDetail{Clinic: c, Members: domain.SplitMembers(members)})
	}
	return out, nil
}

// CreateClinic registers a clinic. Name and email uniqueness is enforced by
// the repository.
func (s *ClinicService) CreateClinic(ctx context.Context, caller domain.Principal, in ports.ClinicInput) (*domain.Clinic, error) {
	if err := requireSuperuser(caller); err != nil {
		return nil, err
	}

	clinic := &domain.Clinic{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Description:   in.Description,
		Address:       in.Address,
		Phone:         in.Phone,
		IsIndependent: true,
		CreatedAt:     s.now().UTC(),
	}
	if in.IsIndependent != nil {
		clinic.IsIndependent = *in.IsIndependent
	}
	if err := validateClinic(clinic); err != nil {
		return nil, err
	}
	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, err
	}

	s.logger.Info().Str("clinic_id", clinic.ID.String()).Str("name", clinic.Name).Msg("clinic created")
	return clinic, nil
}

// GetClinic returns a clinic with its staff to its members and superusers.
func (s *ClinicService) GetClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) (*ports.ClinicDetail, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	if !authz.IsMemberOfClinic(caller, id) {
		return nil, domain.ErrForbidden
	}

	clinic, err := s.clinics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.users.ListByClinic(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.ClinicDetail{Clinic: clinic, Members: domain.SplitMembers(members)}, nil
}

// UpdateClinic applies patch to a clinic. Superusers only.
func (s *ClinicService) UpdateClinic(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.ClinicPatch) (*domain.Clinic, error) {
	if err := requireSuperuser(caller); err != nil {
		return nil, err
	}

	clinic, err := s.clinics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		clinic.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		clinic.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Description != nil {
		clinic.Description = *patch.Description
	}
	if patch.Address != nil {
		clinic.Address = *patch.Address
	}
	if patch.Phone != nil {
		clinic.Phone = *patch.Phone
	}
	if patch.IsIndependent != nil {
		clinic.IsIndependent = *patch.IsIndependent
	}
	if err := validateClinic(clinic); err != nil {
		return nil, err
	}
	if err := s.clinics.Update(ctx, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

// DeleteClinic removes a clinic. Its members stay, with their clinic cleared.
func (s *ClinicService) DeleteClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) error {
	if err := requireSuperuser(caller); err != nil {
		return err
	}
	if err := s.clinics.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("clinic_id", id.String()).Msg("clinic deleted")
	return nil
}

func validateClinic(c *domain.Clinic) error {
	fields := map[string]string{}
	if c.Name == "" {
		fields["name"] = "this field may not be blank"
	}
	if c.Email == "" {
		fields["email"] = "this field may not be blank"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
