// internal/service/listing/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrListingNotFound   = apperr.New(apperr.ErrNotFound, "listing not found")
	ErrNotOwner          = apperr.New(apperr.ErrForbidden, "not owner")
	ErrAlreadyCompleted  = apperr.New(apperr.ErrInvalidState, "listing is already completed")
	ErrAlreadyFavorite   = apperr.New(apperr.ErrConflict, "listing is already in favorites")
	ErrFavoriteNotFound  = apperr.New(apperr.ErrNotFound, "favorite not found")
	ErrCompleteViaAction = apperr.New(apperr.ErrValidation, "use the complete action to close a listing")
)
