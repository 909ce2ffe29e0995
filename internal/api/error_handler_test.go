package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cdms/clinic-system/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("full_name", "this field is required"), http.StatusBadRequest},
		{"username taken", domain.ErrUsernameTaken, http.StatusBadRequest},
		{"clinic name taken", domain.ErrClinicNameTaken, http.StatusBadRequest},
		{"clinic email taken", domain.ErrClinicEmailTaken, http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"cross clinic", domain.ErrCrossClinic, http.StatusForbidden},
		{"not patient doctor", domain.ErrNotPatientDoctor, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"clinic not found", domain.ErrClinicNotFound, http.StatusNotFound},
		{"patient not found", domain.ErrPatientNotFound, http.StatusNotFound},
		{"authentication required", domain.ErrAuthenticationRequired, http.StatusUnprocessableEntity},
		{"doctors only", domain.ErrDoctorsOnly, http.StatusUnprocessableEntity},
		{"invalid refresh token", domain.ErrInvalidRefreshToken, http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("load patient: %w", domain.ErrPatientNotFound), http.StatusNotFound},
		{"echo http error", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h(tt.err, e.NewContext(req, rec))

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("expected error message in envelope")
			}
		})
	}
}

func TestHTTPErrorHandler_Envelope(t *testing.T) {
	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/clinics/create-clinic", nil)
	rec := httptest.NewRecorder()
	h(domain.ErrClinicNameTaken, e.NewContext(req, rec))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Fields["name"] != domain.ErrClinicNameTaken.Error() {
		t.Fatalf("expected name field error, got %+v", body.Fields)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	h(errors.New("pq: password authentication failed"), e.NewContext(req, rec))
	if body := rec.Body.String(); body == "" || strings.Contains(body, "password") {
		t.Fatalf("internal errors must not leak: %s", body)
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rec := httptest.NewRecorder()
	h(domain.ErrForbidden, e.NewContext(req, rec))

	if rec.Code != http.StatusForbidden || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 403, got %d %q", rec.Code, rec.Body.String())
	}
}
