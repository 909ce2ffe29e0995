package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the staff role of an identity.
type Role string

const (
	RoleDoctor      Role = "doctor"
	RoleClinicAdmin Role = "clinic_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RoleClinicAdmin
}

// User models an account: a doctor or a clinic admin, optionally affiliated
// with a clinic. A nil ClinicID means a solo practitioner.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	ClinicID     *uuid.UUID
	IsSuperuser  bool
	IsActive     bool
	CreatedAt    time.Time
}

func (u *User) IsDoctor() bool { return u.Role == RoleDoctor }

func (u *User) IsClinicAdmin() bool { return u.Role == RoleClinicAdmin }

// IsSoloDoctor reports whether u is a doctor without a clinic.
func (u *User) IsSoloDoctor() bool { return u.IsDoctor() && u.ClinicID == nil }

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CheckMembership enforces the role/clinic invariant: admins always administer
// a clinic, and an account without a clinic is a doctor.
func (u *User) CheckMembership() error {
	if !u.Role.Valid() {
		return NewValidationError("role", "must be one of: doctor clinic_admin")
	}
	if u.ClinicID == nil && u.Role != RoleDoctor {
		return NewValidationError("role", "an account without a clinic must be a doctor")
	}
	return nil
}

// SameClinic reports whether a and b reference the same non-nil clinic.
func SameClinic(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
