// internal/service/account/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrAccountNotFound     = apperr.New(apperr.ErrNotFound, "account not found")
	ErrEmailTaken          = apperr.New(apperr.ErrConflict, "El email ya está registrado")
	ErrInvalidCredentials  = apperr.New(apperr.ErrUnauthorized, "Credenciales inválidas")
	ErrInvalidVerifyToken  = apperr.New(apperr.ErrValidation, "Token de verificación inválido o expirado")
	ErrVerifyTokenRequired = apperr.New(apperr.ErrValidation, "Token no proporcionado")
)
