package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/core/ports"
)

// ClinicHandler serves the clinic registry.
type ClinicHandler struct {
	service ports.ClinicService
}

func NewClinicHandler(service ports.ClinicService) *ClinicHandler {
	return &ClinicHandler{service: service}
}

type clinicRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Description   string `json:"description"`
	Address       string `json:"address" validate:"max=255"`
	Phone         string `json:"phone" validate:"max=32"`
	IsIndependent *bool  `json:"is_independent"`
}

type clinicPatchRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email         *string `json:"email" validate:"omitempty,email,max=254"`
	Description   *string `json:"description"`
	Address       *string `json:"address" validate:"omitempty,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
	IsIndependent *bool   `json:"is_independent"`
}

// List returns every clinic with its doctors and admins.
//
// @Summary      List clinics
// @Tags         clinics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clinicListItem
// @Failure      403  {object}  map[string]string
// @Router       /clinics [get]
func (h *ClinicHandler) List(c echo.Context) error {
	clinics, err := h.service.ListClinics(c.Request().Context(), principal(c))
	if err != nil {
		return observeDenial("list_clinics", err)
	}

	out := make([]clinicListItem, 0, len(clinics))
	for _, d := range clinics {
		out = append(out, toClinicListItem(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a clinic.
//
// @Summary      Create a clinic
// @Tags         clinics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clinicRequest  true  "Clinic details"
// @Success      201   {object}  clinicResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /clinics/create-clinic [post]
func (h *ClinicHandler) Create(c echo.Context) error {
	var req clinicRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	clinic, err := h.service.CreateClinic(c.Request().Context(), principal(c), ports.ClinicInput{
		Name:          req.Name,
		Email:         req.Email,
		Description:   req.Description,
		Address:       req.Address,
		Phone:         req.Phone,
		IsIndependent: req.IsIndependent,
	})
	if err != nil {
		return observeDenial("create_clinic", err)
	}
	return c.JSON(http.StatusCreated, toClinicResponse(clinic))
}

// Details returns one clinic with its doctors and admins.
//
// @Summary      Clinic details
// @Tags         clinics
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Clinic id"
// @Success      200  {object}  clinicDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /clinics/details/{id} [get]
func (h *ClinicHandler) Details(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.GetClinic(c.Request().Context(), principal(c), id)
	if err != nil {
		return observeDenial("clinic_details", err)
	}
	return c.JSON(http.StatusOK, toClinicDetail(detail))
}

// Update replaces (PUT) or patches (PATCH) a clinic.
//
// @Summary      Update a clinic
// @Tags         clinics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Clinic id"
// @Param        body  body      clinicPatchRequest  true  "Fields to change"
// @Success      200   {object}  clinicResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clinics/update/{id} [put]
// @Router       /clinics/update/{id} [patch]
func (h *ClinicHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var patch ports.ClinicPatch
	if c.Request().Method == http.MethodPut {
		var req clinicRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		patch = ports.ClinicPatch{
			Name:          &req.Name,
			Email:         &req.Email,
			Description:   &req.Description,
			Address:       &req.Address,
			Phone:         &req.Phone,
			IsIndependent: req.IsIndependent,
		}
	} else {
		var req clinicPatchRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		patch = ports.ClinicPatch{
			Name:          req.Name,
			Email:         req.Email,
			Description:   req.Description,
			Address:       req.Address,
			Phone:         req.Phone,
			IsIndependent: req.IsIndependent,
		}
	}

	clinic, err := h.service.UpdateClinic(c.Request().Context(), principal(c), id, patch)
	if err != nil {
		return observeDenial("update_clinic", err)
	}
	return c.JSON(http.StatusOK, toClinicResponse(clinic))
}

// Delete removes a clinic; its members lose their clinic reference.
//
// @Summary      Delete a clinic
// @Tags         clinics
// @Security     BearerAuth
// @Param        id   path  string  true  "Clinic id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /clinics/delete/{id} [delete]
func (h *ClinicHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteClinic(c.Request().Context(), principal(c), id); err != nil {
		return observeDenial("delete_clinic", err)
	}
	return c.NoContent(http.StatusNoContent)
}
