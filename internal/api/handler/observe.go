package handler

import (
	"errors"

	"github.com/cdms/clinic-system/internal/api/metrics"
	"github.com/cdms/clinic-system/internal/core/domain"
)

// observeDenial counts err against operation when it is an authorization
// refusal, and returns err unchanged.
func observeDenial(operation string, err error) error {
	if errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrCrossClinic) ||
		errors.Is(err, domain.ErrNotPatientDoctor) {
		metrics.AuthzDenialsTotal.WithLabelValues(operation).Inc()
	}
	return err
}
