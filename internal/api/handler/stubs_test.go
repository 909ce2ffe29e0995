package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/api/middleware"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) CreateSuperuser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAuthService) Authenticate(ctx context.Context, accessToken string) (domain.Principal, error) {
	return domain.Anonymous(), domain.ErrInvalidToken
}

type stubUserService struct {
	listFn   func(ctx context.Context, caller domain.Principal) ([]*domain.User, error)
	createFn func(ctx context.Context, caller domain.Principal, in ports.CreateStaffInput) (*domain.User, error)
	deleteFn func(ctx context.Context, caller domain.Principal, clinicID, doctorID uuid.UUID) error
}

func (s *stubUserService) ListUsers(ctx context.Context, caller domain.Principal) ([]*domain.User, error) {
	return s.listFn(ctx, caller)
}

func (s *stubUserService) CreateStaff(ctx context.Context, caller domain.Principal, in ports.CreateStaffInput) (*domain.User, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubUserService) DeleteStaff(ctx context.Context, caller domain.Principal, clinicID, doctorID uuid.UUID) error {
	return s.deleteFn(ctx, caller, clinicID, doctorID)
}

type stubClinicService struct {
	listFn   func(ctx context.Context, caller domain.Principal) ([]ports.ClinicDetail, error)
	createFn func(ctx context.Context, caller domain.Principal, in ports.ClinicInput) (*domain.Clinic, error)
	getFn    func(ctx context.Context, caller domain.Principal, id uuid.UUID) (*ports.ClinicDetail, error)
	updateFn func(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.ClinicPatch) (*domain.Clinic, error)
	deleteFn func(ctx context.Context, caller domain.Principal, id uuid.UUID) error
}

func (s *stubClinicService) ListClinics(ctx context.Context, caller domain.Principal) ([]ports.ClinicDetail, error) {
	return s.listFn(ctx, caller)
}

func (s *stubClinicService) CreateClinic(ctx context.Context, caller domain.Principal, in ports.ClinicInput) (*domain.Clinic, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubClinicService) GetClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) (*ports.ClinicDetail, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubClinicService) UpdateClinic(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.ClinicPatch) (*domain.Clinic, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubClinicService) DeleteClinic(ctx context.Context, caller domain.Principal, id uuid.UUID) error {
	return s.deleteFn(ctx, caller, id)
}

type stubPatientService struct {
	createFn func(ctx context.Context, caller domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error)
	listFn   func(ctx context.Context, caller domain.Principal, clinicID uuid.UUID, filter domain.PatientFilter) ([]ports.ClinicPatient, error)
	getFn    func(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Patient, error)
	updateFn func(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error)
	deleteFn func(ctx context.Context, caller domain.Principal, clinicID *uuid.UUID, id uuid.UUID) error
}

func (s *stubPatientService) CreatePatient(ctx context.Context, caller domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubPatientService) ListClinicPatients(ctx context.Context, caller domain.Principal, clinicID uuid.UUID, filter domain.PatientFilter) ([]ports.ClinicPatient, error) {
	return s.listFn(ctx, caller, clinicID, filter)
}

func (s *stubPatientService) GetPatient(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Patient, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubPatientService) UpdatePatient(ctx context.Context, caller domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubPatientService) DeletePatient(ctx context.Context, caller domain.Principal, clinicID *uuid.UUID, id uuid.UUID) error {
	return s.deleteFn(ctx, caller, clinicID, id)
}

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// newRequest builds an echo context for method/target with a JSON body and
// the given caller.
func newRequest(method, target string, body io.Reader, caller domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.PrincipalKey, caller)
	return c, rec
}

func doctorPrincipal(clinicID *uuid.UUID) domain.Principal {
	return domain.Principal{UserID: uuid.New(), Username: "doc", Role: domain.RoleDoctor, ClinicID: clinicID, Authenticated: true}
}

func superuserPrincipal() domain.Principal {
	return domain.Principal{UserID: uuid.New(), Username: "root", Role: domain.RoleDoctor, IsSuperuser: true, Authenticated: true}
}
