package domain

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is an organization that owns staff accounts. IsIndependent marks a
// clinic record that backs a solo doctor rather than an organization.
type Clinic struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Description   string
	Address       string
	Phone         string
	IsIndependent bool
	CreatedAt     time.Time
}

// ClinicMembers splits a clinic's staff by role.
type ClinicMembers struct {
	Doctors []*User
	Admins  []*User
}

// SplitMembers partitions users by role, preserving order.
func SplitMembers(users []*User) ClinicMembers {
	m := ClinicMembers{Doctors: []*User{}, Admins: []*User{}}
	for _, u := range users {
		switch u.Role {
		case RoleDoctor:
			m.Doctors = append(m.Doctors, u)
		case RoleClinicAdmin:
			m.Admins = append(m.Admins, u)
		}
	}
	return m
}
