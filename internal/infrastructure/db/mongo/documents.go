package mongo

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// Documents keep ids as canonical uuid strings.

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Email        string    `bson:"email"`
	Role         string    `bson:"role"`
	ClinicID     *string   `bson:"clinic_id,omitempty"`
	IsSuperuser  bool      `bson:"is_superuser"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
}

type clinicDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	Description   string    `bson:"description"`
	Address       string    `bson:"address"`
	Phone         string    `bson:"phone"`
	IsIndependent bool      `bson:"is_independent"`
	CreatedAt     time.Time `bson:"created_at"`
}

type patientDocument struct {
	ID          string    `bson:"_id"`
	DoctorID    string    `bson:"doctor_id"`
	FullName    string    `bson:"full_name"`
	Gender      string    `bson:"gender"`
	Phone       string    `bson:"phone"`
	DateOfBirth time.Time `bson:"date_of_birth"`
	Address     string    `bson:"address"`
	SSN         string    `bson:"ssn"`
	CreatedAt   time.Time `bson:"created_at"`
}

func newUserDocument(u *domain.User) userDocument {
	doc := userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         string(u.Role),
		IsSuperuser:  u.IsSuperuser,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC(),
	}
	if u.ClinicID != nil {
		s := u.ClinicID.String()
		doc.ClinicID = &s
	}
	return doc
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("user id %q: %w", d.ID, err)
	}
	u := &domain.User{
		ID:           id,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		IsSuperuser:  d.IsSuperuser,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.ClinicID != nil {
		clinicID, err := uuid.Parse(*d.ClinicID)
		if err != nil {
			return nil, fmt.Errorf("user clinic id %q: %w", *d.ClinicID, err)
		}
		u.ClinicID = &clinicID
	}
	return u, nil
}

func newClinicDocument(c *domain.Clinic) clinicDocument {
	return clinicDocument{
		ID:            c.ID.String(),
		Name:          c.Name,
		Email:         c.Email,
		Description:   c.Description,
		Address:       c.Address,
		Phone:         c.Phone,
		IsIndependent: c.IsIndependent,
		CreatedAt:     c.CreatedAt.UTC(),
	}
}

func (d clinicDocument) toDomain() (*domain.Clinic, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("clinic id %q: %w", d.ID, err)
	}
	return &domain.Clinic{
		ID:            id,
		Name:          d.Name,
		Email:         d.Email,
		Description:   d.Description,
		Address:       d.Address,
		Phone:         d.Phone,
		IsIndependent: d.IsIndependent,
		CreatedAt:     d.CreatedAt.UTC(),
	}, nil
}

func newPatientDocument(p *domain.Patient) patientDocument {
	return patientDocument{
		ID:          p.ID.String(),
		DoctorID:    p.DoctorID.String(),
		FullName:    p.FullName,
		Gender:      string(p.Gender),
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth.UTC(),
		Address:     p.Address,
		SSN:         p.SSN,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func (d patientDocument) toDomain() (*domain.Patient, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("patient id %q: %w", d.ID, err)
	}
	doctorID, err := uuid.Parse(d.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("patient doctor id %q: %w", d.DoctorID, err)
	}
	return &domain.Patient{
		ID:          id,
		DoctorID:    doctorID,
		FullName:    d.FullName,
		Gender:      domain.Gender(d.Gender),
		Phone:       d.Phone,
		DateOfBirth: d.DateOfBirth.UTC(),
		Address:     d.Address,
		SSN:         d.SSN,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

// patientFilter builds the listing filter. Gender matches exactly; phone and
// name match case-insensitive substrings taken literally.
func patientFilter(doctorIDs []uuid.UUID, f domain.PatientFilter) bson.M {
	ids := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		ids[i] = id.String()
	}

	filter := bson.M{"doctor_id": bson.M{"$in": ids}}
	if f.Gender != "" {
		filter["gender"] = f.Gender
	}
	if f.Phone != "" {
		filter["phone"] = containsRegex(f.Phone)
	}
	if f.FullName != "" {
		filter["full_name"] = containsRegex(f.FullName)
	}
	return filter
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
