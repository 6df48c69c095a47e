// internal/service/pickup/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrPickupNotFound     = apperr.New(apperr.ErrNotFound, "Recolección no encontrada")
	ErrNotOwner           = apperr.New(apperr.ErrForbidden, "not owner")
	ErrNotCancellable     = apperr.New(apperr.ErrInvalidState, "La recolección ya no se puede cancelar")
	ErrMissingFields      = apperr.New(apperr.ErrValidation, "Todos los campos son requeridos")
	ErrDateInPast         = apperr.New(apperr.ErrValidation, "La fecha no puede estar en el pasado")
	ErrInvalidDate        = apperr.New(apperr.ErrValidation, "Formato de fecha inválido, use AAAA-MM-DD")
	ErrInvalidSlot        = apperr.New(apperr.ErrValidation, "Horario no disponible")
	ErrReminderAlreadySet = apperr.New(apperr.ErrInvalidState, "reminder already sent")
)
