// Package metrics defines and registers the custom Prometheus metrics of the
// clinic API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Identity metrics ─────────────────────────────────────────────────────────

// AccountsCreatedTotal counts accounts created.
// Label:
//   - source: "register" (self-registration) or "staff" (clinic-scoped creation)
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by creation path.",
	},
	[]string{"source"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// AuthzDenialsTotal counts requests refused by an access-control predicate.
// Label:
//   - operation: the denied operation (e.g. "patient_details", "delete_clinic_doctor")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by authorization checks.",
	},
	[]string{"operation"},
)

// ── Patient metrics ──────────────────────────────────────────────────────────

// PatientsCreatedTotal counts newly recorded patients.
var PatientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patients_created_total",
		Help:      "Total number of patient records created.",
	},
)
