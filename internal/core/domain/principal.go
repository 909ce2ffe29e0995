package domain

import "github.com/google/uuid"

// Principal is the acting identity of a request, resolved from the bearer
// token before any service call. The zero value is an anonymous caller.
type Principal struct {
	UserID        uuid.UUID
	Username      string
	Role          Role
	ClinicID      *uuid.UUID
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal { return Principal{} }

// PrincipalFor builds the authenticated principal of u.
func PrincipalFor(u *User) Principal {
	p := Principal{
		UserID:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		Authenticated: true,
	}
	if u.ClinicID != nil {
		id := *u.ClinicID
		p.ClinicID = &id
	}
	return p
}
