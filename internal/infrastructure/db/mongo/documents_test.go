package mongo

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cdms/clinic-system/internal/core/domain"
)

func TestUserDocument_ClinicReference(t *testing.T) {
	clinicID := uuid.New()
	u := &domain.User{
		ID:        uuid.New(),
		Username:  "alice",
		Role:      domain.RoleClinicAdmin,
		ClinicID:  &clinicID,
		IsActive:  true,
		CreatedAt: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}

	doc := newUserDocument(u)
	if doc.ID != u.ID.String() || doc.ClinicID == nil || *doc.ClinicID != clinicID.String() {
		t.Fatalf("unexpected document: %+v", doc)
	}

	back, err := doc.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if back.ID != u.ID || back.ClinicID == nil || *back.ClinicID != clinicID || back.Role != domain.RoleClinicAdmin {
		t.Fatalf("unexpected user: %+v", back)
	}

	solo := newUserDocument(&domain.User{ID: uuid.New(), Role: domain.RoleDoctor})
	if solo.ClinicID != nil {
		t.Fatalf("solo doctor must not carry a clinic")
	}
}

func TestPatientDocument_RejectsCorruptIDs(t *testing.T) {
	doc := patientDocument{ID: "not-a-uuid", DoctorID: uuid.NewString()}
	if _, err := doc.toDomain(); err == nil {
		t.Fatalf("expected error for malformed id")
	}
	doc = patientDocument{ID: uuid.NewString(), DoctorID: "nope"}
	if _, err := doc.toDomain(); err == nil {
		t.Fatalf("expected error for malformed doctor id")
	}
}

func TestPatientFilter(t *testing.T) {
	a := uuid.New()

	f := patientFilter([]uuid.UUID{a}, domain.PatientFilter{Gender: "F", Phone: "555", FullName: "j.doe"})

	in, ok := f["doctor_id"].(bson.M)
	if !ok {
		t.Fatalf("missing doctor filter: %+v", f)
	}
	if ids := in["$in"].([]string); len(ids) != 1 || ids[0] != a.String() {
		t.Fatalf("unexpected doctor ids: %v", in["$in"])
	}
	if f["gender"] != "F" {
		t.Fatalf("gender must match exactly: %v", f["gender"])
	}

	name, ok := f["full_name"].(primitive.Regex)
	if !ok || name.Options != "i" {
		t.Fatalf("name must be a case-insensitive regex: %v", f["full_name"])
	}
	re := regexp.MustCompile("(?i)" + name.Pattern)
	if !re.MatchString("Mr J.DOE Senior") || re.MatchString("jxdoe") {
		t.Fatalf("name pattern must match literally: %q", name.Pattern)
	}
}

func TestPatientFilter_EmptyFieldsIgnored(t *testing.T) {
	f := patientFilter([]uuid.UUID{uuid.New()}, domain.PatientFilter{})
	if len(f) != 1 {
		t.Fatalf("expected only the doctor filter, got %+v", f)
	}
}

func TestDuplicateIndex(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: clinic.clinics index: clinics_email_unique dup key: { email: \"c@example.com\" }",
	}}}

	if got := duplicateIndex(dup, indexClinicName, indexClinicEmail); got != indexClinicEmail {
		t.Fatalf("expected email index, got %q", got)
	}
	if !errors.Is(clinicWriteError(dup), domain.ErrClinicEmailTaken) {
		t.Fatalf("expected ErrClinicEmailTaken")
	}
	if got := duplicateIndex(errors.New("timeout"), indexUsername); got != "" {
		t.Fatalf("non duplicate errors must not match, got %q", got)
	}
}
