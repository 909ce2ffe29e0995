package handler

import (
	"errors"
	"testing"

	"github.com/cdms/clinic-system/internal/core/domain"
)

func TestValidator_KeysByJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&patientRequest{FullName: "Jane", Gender: "M", Phone: "12345678901234567890123"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	want := map[string]string{
		"phone":         "must be at most 20 characters",
		"date_of_birth": "this field is required",
		"address":       "this field is required",
		"ssn":           "this field is required",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, ve.Fields[field])
		}
	}
	if _, ok := ve.Fields["FullName"]; ok {
		t.Fatalf("fields must use json names: %+v", ve.Fields)
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Username: "a", Password: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
