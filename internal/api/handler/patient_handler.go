package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/api/metrics"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// PatientHandler serves the patient registry.
type PatientHandler struct {
	service ports.PatientService
	now     func() time.Time
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service, now: time.Now}
}

type patientRequest struct {
	Doctor      string `json:"doctor" validate:"omitempty,uuid"`
	FullName    string `json:"full_name" validate:"required,max=255"`
	Gender      string `json:"gender" validate:"required,oneof=M F"`
	Phone       string `json:"phone" validate:"required,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     string `json:"address" validate:"required"`
	SSN         string `json:"ssn" validate:"required,max=255"`
}

// patientReplaceRequest is the PUT body. Ownership is fixed at creation, so a
// doctor field is refused rather than ignored.
type patientReplaceRequest struct {
	Doctor      *string `json:"doctor"`
	FullName    string  `json:"full_name" validate:"required,max=255"`
	Gender      string  `json:"gender" validate:"required,oneof=M F"`
	Phone       string  `json:"phone" validate:"required,max=20"`
	DateOfBirth string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     string  `json:"address" validate:"required"`
	SSN         string  `json:"ssn" validate:"required,max=255"`
}

type patientPatchRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=M F"`
	Phone       *string `json:"phone" validate:"omitempty,min=1,max=20"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address" validate:"omitempty,min=1"`
	SSN         *string `json:"ssn" validate:"omitempty,min=1,max=255"`
}

type patientListQuery struct {
	Gender   string `query:"gender"`
	Phone    string `query:"phone"`
	FullName string `query:"full_name"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date_of_birth", "date has wrong format, use YYYY-MM-DD")
	}
	return t, nil
}

// Create records a patient owned by the calling doctor.
//
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patientRequest  true  "Patient details"
// @Success      201   {object}  patientDetailResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /patients/create [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req patientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return err
	}

	in := ports.CreatePatientInput{
		FullName:    req.FullName,
		Gender:      domain.Gender(req.Gender),
		Phone:       req.Phone,
		DateOfBirth: dob,
		Address:     req.Address,
		SSN:         req.SSN,
	}
	if req.Doctor != "" {
		id, err := uuid.Parse(req.Doctor)
		if err != nil {
			return domain.NewValidationError("doctor", "must be a valid id")
		}
		in.DoctorID = &id
	}

	patient, err := h.service.CreatePatient(c.Request().Context(), principal(c), in)
	if err != nil {
		return err
	}
	metrics.PatientsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, toPatientDetail(patient, h.now()))
}

// ListByClinic lists the patients of a clinic's doctors.
//
// @Summary      List clinic patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        clinic_id  path      string  true   "Clinic id"
// @Param        gender     query     string  false  "Exact gender (M or F)"
// @Param        phone      query     string  false  "Phone substring"
// @Param        full_name  query     string  false  "Name substring"
// @Success      200        {array}   patientListItem
// @Failure      403        {object}  map[string]string
// @Router       /clinics/{clinic_id}/patients [get]
func (h *PatientHandler) ListByClinic(c echo.Context) error {
	clinicID, err := pathID(c, "clinic_id")
	if err != nil {
		return err
	}
	var q patientListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	patients, err := h.service.ListClinicPatients(c.Request().Context(), principal(c), clinicID, domain.PatientFilter{
		Gender:   q.Gender,
		Phone:    q.Phone,
		FullName: q.FullName,
	})
	if err != nil {
		return observeDenial("list_clinic_patients", err)
	}

	now := h.now()
	out := make([]patientListItem, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientListItem(p, now))
	}
	return c.JSON(http.StatusOK, out)
}

// Details returns a patient to its doctor.
//
// @Summary      Patient details
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  patientDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /patients/details/{id} [get]
func (h *PatientHandler) Details(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	patient, err := h.service.GetPatient(c.Request().Context(), principal(c), id)
	if err != nil {
		return observeDenial("patient_details", err)
	}
	return c.JSON(http.StatusOK, toPatientDetail(patient, h.now()))
}

// Update replaces (PUT) or patches (PATCH) a patient.
//
// @Summary      Edit a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Patient id"
// @Param        body  body      patientPatchRequest  true  "Fields to change"
// @Success      200   {object}  patientDetailResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /patients/edit/{id} [put]
// @Router       /patients/edit/{id} [patch]
func (h *PatientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var patch ports.PatientPatch
	if c.Request().Method == http.MethodPut {
		patch, err = h.bindReplace(c)
	} else {
		patch, err = h.bindPatch(c)
	}
	if err != nil {
		return err
	}

	patient, err := h.service.UpdatePatient(c.Request().Context(), principal(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientDetail(patient, h.now()))
}

func (h *PatientHandler) bindReplace(c echo.Context) (ports.PatientPatch, error) {
	var req patientReplaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return ports.PatientPatch{}, err
	}
	if req.Doctor != nil {
		return ports.PatientPatch{}, domain.NewValidationError("doctor", "patient ownership cannot be changed")
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return ports.PatientPatch{}, err
	}
	gender := domain.Gender(req.Gender)
	return ports.PatientPatch{
		FullName:    &req.FullName,
		Gender:      &gender,
		Phone:       &req.Phone,
		DateOfBirth: &dob,
		Address:     &req.Address,
		SSN:         &req.SSN,
	}, nil
}

func (h *PatientHandler) bindPatch(c echo.Context) (ports.PatientPatch, error) {
	var req patientPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return ports.PatientPatch{}, err
	}
	patch := ports.PatientPatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		SSN:      req.SSN,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		patch.Gender = &g
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return ports.PatientPatch{}, err
		}
		patch.DateOfBirth = &dob
	}
	return patch, nil
}

// Delete removes a patient on behalf of clinic staff. The route carries no
// clinic id, so every caller is refused.
//
// @Summary      Delete a patient
// @Tags         patients
// @Security     BearerAuth
// @Param        id   path  string  true  "Patient id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /patients/delete/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var clinicID *uuid.UUID
	if raw := c.Param("clinic_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		clinicID = &parsed
	}

	if err := h.service.DeletePatient(c.Request().Context(), principal(c), clinicID, id); err != nil {
		return observeDenial("delete_patient", err)
	}
	return c.NoContent(http.StatusNoContent)
}
