package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

func newPatientHandler(svc ports.PatientService) *PatientHandler {
	h := NewPatientHandler(svc)
	h.now = func() time.Time { return testNow }
	return h
}

func samplePatient(doctorID uuid.UUID) *domain.Patient {
	return &domain.Patient{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		FullName:    "Jane Doe",
		Gender:      domain.GenderFemale,
		Phone:       "555-0101",
		DateOfBirth: time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC),
		Address:     "2 Elm St",
		SSN:         "123-45-6789",
		CreatedAt:   testNow,
	}
}

func TestPatientHandler_Create(t *testing.T) {
	caller := doctorPrincipal(nil)
	stub := &stubPatientService{
		createFn: func(ctx context.Context, got domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
			if got.UserID != caller.UserID {
				t.Fatalf("caller not forwarded")
			}
			if in.DoctorID != nil {
				t.Fatalf("doctor must default in the service, got %v", in.DoctorID)
			}
			if !in.DateOfBirth.Equal(time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)) || in.SSN != "123-45-6789" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return samplePatient(caller.UserID), nil
		},
	}
	handler := newPatientHandler(stub)

	body := `{"full_name":"Jane Doe","gender":"F","phone":"555-0101","date_of_birth":"1990-12-31","address":"2 Elm St","ssn":"123-45-6789"}`
	c, rec := newRequest(http.MethodPost, "/patients/create", strings.NewReader(body), caller)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["ssn"]; ok {
		t.Fatalf("ssn must never be rendered: %+v", resp)
	}
	if resp["age"] != float64(34) || resp["date_of_birth"] != "1990-12-31" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPatientHandler_Create_Validation(t *testing.T) {
	stub := &stubPatientService{
		createFn: func(ctx context.Context, caller domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newPatientHandler(stub)

	body := `{"full_name":"Jane","gender":"X","phone":"555","date_of_birth":"31/12/1990","address":"a"}`
	c, _ := newRequest(http.MethodPost, "/patients/create", strings.NewReader(body), doctorPrincipal(nil))
	err := handler.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"gender", "date_of_birth", "ssn"} {
		if ve.Fields[field] == "" {
			t.Fatalf("expected %s error, got %+v", field, ve.Fields)
		}
	}
}

func TestPatientHandler_Create_DoctorsOnly(t *testing.T) {
	stub := &stubPatientService{
		createFn: func(ctx context.Context, caller domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
			return nil, domain.ErrDoctorsOnly
		},
	}
	handler := newPatientHandler(stub)

	body := `{"full_name":"Jane","gender":"F","phone":"555","date_of_birth":"1990-12-31","address":"a","ssn":"1"}`
	c, _ := newRequest(http.MethodPost, "/patients/create", strings.NewReader(body), domain.Anonymous())
	if err := handler.Create(c); !errors.Is(err, domain.ErrDoctorsOnly) {
		t.Fatalf("expected ErrDoctorsOnly, got %v", err)
	}
}

func TestPatientHandler_Details(t *testing.T) {
	owner := doctorPrincipal(nil)
	patient := samplePatient(owner.UserID)
	stub := &stubPatientService{
		getFn: func(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Patient, error) {
			if caller.UserID != owner.UserID {
				return nil, domain.ErrNotPatientDoctor
			}
			return patient, nil
		},
	}
	handler := newPatientHandler(stub)

	c, rec := newRequest(http.MethodGet, "/", nil, owner)
	c.SetParamNames("id")
	c.SetParamValues(patient.ID.String())
	if err := handler.Details(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["doctor"] != owner.UserID.String() || resp["full_name"] != "Jane Doe" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["ssn"]; ok {
		t.Fatalf("ssn must never be rendered")
	}

	other, _ := newRequest(http.MethodGet, "/", nil, doctorPrincipal(nil))
	other.SetParamNames("id")
	other.SetParamValues(patient.ID.String())
	if err := handler.Details(other); !errors.Is(err, domain.ErrNotPatientDoctor) {
		t.Fatalf("expected ErrNotPatientDoctor, got %v", err)
	}
}

func TestPatientHandler_ListByClinic(t *testing.T) {
	clinicID := uuid.New()
	doctor := &domain.User{ID: uuid.New(), FirstName: "Greg", LastName: "House", Role: domain.RoleDoctor, ClinicID: &clinicID}
	stub := &stubPatientService{
		listFn: func(ctx context.Context, caller domain.Principal, gotClinic uuid.UUID, filter domain.PatientFilter) ([]ports.ClinicPatient, error) {
			if gotClinic != clinicID {
				t.Fatalf("unexpected clinic %s", gotClinic)
			}
			if filter.Gender != "F" || filter.Phone != "555" || filter.FullName != "" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []ports.ClinicPatient{{Patient: samplePatient(doctor.ID), Doctor: doctor}}, nil
		},
	}
	handler := newPatientHandler(stub)

	c, rec := newRequest(http.MethodGet, "/clinics/x/patients?gender=F&phone=555", nil, doctorPrincipal(&clinicID))
	c.SetParamNames("clinic_id")
	c.SetParamValues(clinicID.String())

	if err := handler.ListByClinic(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 patient, got %d", len(resp))
	}
	item := resp[0]
	if item["doctor_name"] != "Greg House" || item["age"] != float64(34) {
		t.Fatalf("unexpected item: %+v", item)
	}
	for _, hidden := range []string{"address", "ssn", "date_of_birth"} {
		if _, ok := item[hidden]; ok {
			t.Fatalf("%s must not appear in listings", hidden)
		}
	}
}

func TestPatientHandler_ListByClinic_Empty(t *testing.T) {
	stub := &stubPatientService{
		listFn: func(ctx context.Context, caller domain.Principal, clinicID uuid.UUID, filter domain.PatientFilter) ([]ports.ClinicPatient, error) {
			return []ports.ClinicPatient{}, nil
		},
	}
	handler := newPatientHandler(stub)

	clinicID := uuid.New()
	c, rec := newRequest(http.MethodGet, "/", nil, doctorPrincipal(&clinicID))
	c.SetParamNames("clinic_id")
	c.SetParamValues(clinicID.String())

	if err := handler.ListByClinic(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestPatientHandler_Patch(t *testing.T) {
	caller := doctorPrincipal(nil)
	patient := samplePatient(caller.UserID)
	stub := &stubPatientService{
		updateFn: func(ctx context.Context, got domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
			if patch.Phone == nil || *patch.Phone != "555-9999" {
				t.Fatalf("expected phone patch, got %+v", patch)
			}
			if patch.FullName != nil || patch.DateOfBirth != nil {
				t.Fatalf("untouched fields must stay nil")
			}
			patient.Phone = *patch.Phone
			return patient, nil
		},
	}
	handler := newPatientHandler(stub)

	c, rec := newRequest(http.MethodPatch, "/", strings.NewReader(`{"phone":"555-9999"}`), caller)
	c.SetParamNames("id")
	c.SetParamValues(patient.ID.String())

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPatientHandler_Patch_BlankFields(t *testing.T) {
	stub := &stubPatientService{
		updateFn: func(ctx context.Context, got domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newPatientHandler(stub)

	c, _ := newRequest(http.MethodPatch, "/", strings.NewReader(`{"phone":"","address":"","ssn":""}`), doctorPrincipal(nil))
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := handler.Update(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"phone", "address", "ssn"} {
		if verr.Fields[field] == "" {
			t.Fatalf("expected %s to be reported, got %v", field, verr.Fields)
		}
	}
}

func TestPatientHandler_Put_RejectsDoctor(t *testing.T) {
	stub := &stubPatientService{
		updateFn: func(ctx context.Context, got domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newPatientHandler(stub)

	body := `{"doctor":"` + uuid.NewString() + `","full_name":"Jane Doe","gender":"F","phone":"555","date_of_birth":"1990-12-31","address":"2 Elm St","ssn":"123"}`
	c, _ := newRequest(http.MethodPut, "/", strings.NewReader(body), doctorPrincipal(nil))
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := handler.Update(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["doctor"] == "" {
		t.Fatalf("expected doctor validation error, got %v", err)
	}
}

func TestPatientHandler_Put_ReplacesAllFields(t *testing.T) {
	caller := doctorPrincipal(nil)
	patient := samplePatient(caller.UserID)
	stub := &stubPatientService{
		updateFn: func(ctx context.Context, got domain.Principal, id uuid.UUID, patch ports.PatientPatch) (*domain.Patient, error) {
			if patch.FullName == nil || patch.Gender == nil || patch.Phone == nil ||
				patch.DateOfBirth == nil || patch.Address == nil || patch.SSN == nil {
				t.Fatalf("PUT must set every field, got %+v", patch)
			}
			return patient, nil
		},
	}
	handler := newPatientHandler(stub)

	body := `{"full_name":"Jane Doe","gender":"F","phone":"555","date_of_birth":"1990-12-31","address":"2 Elm St","ssn":"123"}`
	c, rec := newRequest(http.MethodPut, "/", strings.NewReader(body), caller)
	c.SetParamNames("id")
	c.SetParamValues(patient.ID.String())

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPatientHandler_Delete_WithoutClinicRoute(t *testing.T) {
	stub := &stubPatientService{
		deleteFn: func(ctx context.Context, caller domain.Principal, clinicID *uuid.UUID, id uuid.UUID) error {
			if clinicID != nil {
				t.Fatalf("route carries no clinic, got %v", clinicID)
			}
			return domain.ErrForbidden
		},
	}
	handler := newPatientHandler(stub)

	clinicID := uuid.New()
	c, _ := newRequest(http.MethodDelete, "/", nil, doctorPrincipal(&clinicID))
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := handler.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
