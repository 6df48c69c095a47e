// internal/service/messaging/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrRecipientNotFound = apperr.New(apperr.ErrNotFound, "Destinatario no encontrado")
	ErrListingNotFound   = apperr.New(apperr.ErrNotFound, "Artículo no encontrado")
	ErrSelfMessage       = apperr.New(apperr.ErrValidation, "No puedes enviarte mensajes a ti mismo")
	ErrEmptyContent      = apperr.New(apperr.ErrValidation, "El mensaje es requerido")
	ErrContentTooLong    = apperr.New(apperr.ErrValidation, "El mensaje es demasiado largo")
)
