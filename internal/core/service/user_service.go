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

// UserService implements account administration.
type UserService struct {
	users   ports.UserRepository
	clinics ports.ClinicRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewUserService(users ports.UserRepository, clinics ports.ClinicRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, clinics: clinics, logger: logger, now: time.Now}
}

// ListUsers returns every account. Superusers only.
func (s *UserService) ListUsers(ctx context.Context, caller domain.Principal) ([]*domain.User, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrUnauthenticated
	}
	if !authz.IsSuperuser(caller) {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx)
}

// CreateStaff creates an account inside the caller's clinic. The requested
// clinic is ignored unless the caller is a superuser.
func (s *UserService) CreateStaff(ctx context.Context, caller domain.Principal, in ports.CreateStaffInput) (*domain.User, error) {
	if !authz.IsAuthenticated(caller) {
		return nil, domain.ErrAuthenticationRequired
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.NewValidationError("username", "this field is required")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "this field is required")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleDoctor
	}

	clinicID := caller.ClinicID
	if authz.IsSuperuser(caller) {
		clinicID = in.ClinicID
	}
	if clinicID != nil {
		if _, err := s.clinics.FindByID(ctx, *clinicID); err != nil {
			if errors.Is(err, domain.ErrClinicNotFound) {
				return nil, domain.NewValidationError("clinic", "clinic does not exist")
			}
			return nil, err
		}
		id := *clinicID
		clinicID = &id
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         role,
		ClinicID:     clinicID,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := user.CheckMembership(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("created_by", caller.UserID.String()).
		Str("role", string(user.Role)).
		Msg("staff account created")
	return user, nil
}

// DeleteStaff removes a doctor from the caller's clinic. The caller must
// administer clinicID, and the doctor must belong to the caller's clinic.
func (s *UserService) DeleteStaff(ctx context.Context, caller domain.Principal, clinicID, doctorID uuid.UUID) error {
	if !authz.IsAuthenticated(caller) {
		return domain.ErrUnauthenticated
	}
	if !authz.IsClinicAdmin(caller, &clinicID) {
		return domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if !target.IsDoctor() {
		return domain.ErrUserNotFound
	}
	if !domain.SameClinic(caller.ClinicID, target.ClinicID) {
		s.logger.Warn().
			Str("caller_id", caller.UserID.String()).
			Str("doctor_id", doctorID.String()).
			Msg("cross-clinic doctor delete denied")
		return domain.ErrCrossClinic
	}

	if err := s.users.Delete(ctx, doctorID); err != nil {
		return err
	}
	s.logger.Info().Str("doctor_id", doctorID.String()).Str("deleted_by", caller.UserID.String()).Msg("doctor deleted")
	return nil
}
