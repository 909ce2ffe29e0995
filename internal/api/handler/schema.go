package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/authz"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// --- Users ---

// userShape selects which fields of an account a caller may see.
type userShape int

const (
	userRedacted userShape = iota
	userFull
)

// userShapeFor picks the account shape for caller: superusers see role and
// clinic, everyone else gets the redacted view.
func userShapeFor(caller domain.Principal) userShape {
	if authz.IsSuperuser(caller) {
		return userFull
	}
	return userRedacted
}

type redactedUserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type fullUserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Clinic    *string `json:"clinic"`
}

// userRecordResponse is the administrative view of an account.
type userRecordResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Clinic      *string `json:"clinic"`
	IsSuperuser bool    `json:"is_superuser"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toRedactedUser(u *domain.User) redactedUserResponse {
	return redactedUserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func toFullUser(u *domain.User) fullUserResponse {
	return fullUserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Clinic:    optionalID(u.ClinicID),
	}
}

func toUserRecord(u *domain.User) userRecordResponse {
	return userRecordResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        string(u.Role),
		Clinic:      optionalID(u.ClinicID),
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

func renderUser(u *domain.User, shape userShape) any {
	if shape == userFull {
		return toFullUser(u)
	}
	return toRedactedUser(u)
}

func redactedUsers(users []*domain.User) []redactedUserResponse {
	out := make([]redactedUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toRedactedUser(u))
	}
	return out
}

// --- Clinics ---

type clinicResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsIndependent bool   `json:"is_independent"`
}

// clinicListItem is a clinic as listed to superusers.
type clinicListItem struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Address     string                 `json:"address"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	Doctors     []redactedUserResponse `json:"doctors"`
	Admins      []redactedUserResponse `json:"admins"`
}

// clinicDetailResponse is the single-clinic view; it omits the id.
type clinicDetailResponse struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Address     string                 `json:"address"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	Doctors     []redactedUserResponse `json:"doctors"`
	Admins      []redactedUserResponse `json:"admins"`
}

func toClinicResponse(c *domain.Clinic) clinicResponse {
	return clinicResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Description:   c.Description,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		IsIndependent: c.IsIndependent,
	}
}

func toClinicListItem(d ports.ClinicDetail) clinicListItem {
	return clinicListItem{
		ID:          d.Clinic.ID.String(),
		Name:        d.Clinic.Name,
		Description: d.Clinic.Description,
		Address:     d.Clinic.Address,
		Phone:       d.Clinic.Phone,
		Email:       d.Clinic.Email,
		Doctors:     redactedUsers(d.Members.Doctors),
		Admins:      redactedUsers(d.Members.Admins),
	}
}

func toClinicDetail(d *ports.ClinicDetail) clinicDetailResponse {
	return clinicDetailResponse{
		Name:        d.Clinic.Name,
		Description: d.Clinic.Description,
		Address:     d.Clinic.Address,
		Phone:       d.Clinic.Phone,
		Email:       d.Clinic.Email,
		Doctors:     redactedUsers(d.Members.Doctors),
		Admins:      redactedUsers(d.Members.Admins),
	}
}

// --- Patients ---

// patientListItem is the reduced view used in clinic listings.
type patientListItem struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Phone      string `json:"phone"`
	DoctorName string `json:"doctor_name"`
}

// patientDetailResponse is every stored field except the ssn.
type patientDetailResponse struct {
	ID          string `json:"id"`
	Doctor      string `json:"doctor"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	CreatedAt   string `json:"created_at"`
}

func toPatientListItem(cp ports.ClinicPatient, now time.Time) patientListItem {
	item := patientListItem{
		ID:       cp.Patient.ID.String(),
		FullName: cp.Patient.FullName,
		Gender:   string(cp.Patient.Gender),
		Age:      cp.Patient.AgeAt(now),
		Phone:    cp.Patient.Phone,
	}
	if cp.Doctor != nil {
		item.DoctorName = cp.Doctor.DisplayName()
	}
	return item
}

func toPatientDetail(p *domain.Patient, now time.Time) patientDetailResponse {
	return patientDetailResponse{
		ID:          p.ID.String(),
		Doctor:      p.DoctorID.String(),
		FullName:    p.FullName,
		Gender:      string(p.Gender),
		Age:         p.AgeAt(now),
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth.Format(domain.DateLayout),
		Address:     p.Address,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
