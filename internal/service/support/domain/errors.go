// internal/service/support/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrMissingFields = apperr.New(apperr.ErrValidation, "Todos los campos son requeridos")
	ErrInvalidRule   = apperr.New(apperr.ErrValidation, "invalid triage rule")
)
