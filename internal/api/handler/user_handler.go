package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cdms/clinic-system/internal/api/metrics"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// UserHandler serves account administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createStaffRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Role      string `json:"role" validate:"omitempty,oneof=doctor clinic_admin"`
	Clinic    string `json:"clinic" validate:"omitempty,uuid"`
}

// List returns every account.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userRecordResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users-list [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), principal(c))
	if err != nil {
		return observeDenial("list_users", err)
	}

	out := make([]userRecordResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserRecord(u))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateStaff adds an account to the caller's clinic.
//
// @Summary      Create a clinic user
// @Tags         clinics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStaffRequest  true  "Account details"
// @Success      201   {object}  fullUserResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /clinics/create-user [post]
func (h *UserHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateStaffInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      domain.Role(req.Role),
	}
	if req.Clinic != "" {
		id, err := uuid.Parse(req.Clinic)
		if err != nil {
			return domain.NewValidationError("clinic", "must be a valid id")
		}
		in.ClinicID = &id
	}

	user, err := h.service.CreateStaff(c.Request().Context(), principal(c), in)
	if err != nil {
		return err
	}
	metrics.AccountsCreatedTotal.WithLabelValues("staff").Inc()

	return c.JSON(http.StatusCreated, toFullUser(user))
}

// DeleteClinicDoctor removes a doctor from the caller's clinic.
//
// @Summary      Delete a clinic doctor
// @Tags         clinics
// @Security     BearerAuth
// @Param        clinic_id  path  string  true  "Clinic id"
// @Param        id         path  string  true  "Doctor id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /clinics/{clinic_id}/doctors/{id} [delete]
func (h *UserHandler) DeleteClinicDoctor(c echo.Context) error {
	clinicID, err := pathID(c, "clinic_id")
	if err != nil {
		return err
	}
	doctorID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteStaff(c.Request().Context(), principal(c), clinicID, doctorID); err != nil {
		return observeDenial("delete_clinic_doctor", err)
	}
	return c.NoContent(http.StatusNoContent)
}
