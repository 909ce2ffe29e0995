// Package authz holds the access-control predicates evaluated once per
// request. Every predicate is a pure function of the caller's principal and
// the target identifiers, so it can be tested without a live request.
package authz

import (
	"github.com/google/uuid"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// IsAuthenticated reports whether the caller presented a valid credential.
func IsAuthenticated(p domain.Principal) bool {
	return p.Authenticated
}

// IsSuperuser reports whether the caller is an authenticated superuser.
func IsSuperuser(p domain.Principal) bool {
	return p.Authenticated && p.IsSuperuser
}

// IsClinicAdmin reports whether the caller is a clinic admin. When target is
// non-nil the caller must also administer that clinic.
func IsClinicAdmin(p domain.Principal, target *uuid.UUID) bool {
	if !p.Authenticated || p.Role != domain.RoleClinicAdmin {
		return false
	}
	if target != nil {
		return domain.SameClinic(p.ClinicID, target)
	}
	return true
}

// IsDoctorOrClinicAdmin reports whether the caller holds a staff role.
func IsDoctorOrClinicAdmin(p domain.Principal) bool {
	return p.Authenticated && (p.Role == domain.RoleDoctor || p.Role == domain.RoleClinicAdmin)
}

// IsMemberOfClinic reports whether the caller may view clinic target:
// superusers always, everyone else only for their own clinic.
func IsMemberOfClinic(p domain.Principal, target uuid.UUID) bool {
	if !p.Authenticated {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	if p.ClinicID == nil {
		return false
	}
	return *p.ClinicID == target
}

// IsClinicStaffOf reports whether the caller is a doctor or admin of clinic
// target. A nil target fails closed.
func IsClinicStaffOf(p domain.Principal, target *uuid.UUID) bool {
	if !IsDoctorOrClinicAdmin(p) {
		return false
	}
	if target == nil {
		return false
	}
	return domain.SameClinic(p.ClinicID, target)
}

// IsPatientDoctor reports whether the caller owns patient.
func IsPatientDoctor(p domain.Principal, patient *domain.Patient) bool {
	return p.Authenticated && patient != nil && p.UserID == patient.DoctorID
}

// IsDoctor reports whether the caller is an authenticated doctor.
func IsDoctor(p domain.Principal) bool {
	return p.Authenticated && p.Role == domain.RoleDoctor
}
