// internal/service/exchange/domain/errors.go
package domain

import "zirako/internal/pkg/apperr"

var (
	ErrProposalNotFound         = apperr.New(apperr.ErrNotFound, "exchange proposal not found")
	ErrRequestedListingNotFound = apperr.New(apperr.ErrNotFound, "requested listing not found")
	ErrNotOwner                 = apperr.New(apperr.ErrForbidden, "not owner")
	ErrNotReceiver              = apperr.New(apperr.ErrForbidden, "only the receiver can decide on this proposal")
	ErrAlreadyDecided           = apperr.New(apperr.ErrInvalidState, "this proposal was already decided")
	ErrSelfExchange             = apperr.New(apperr.ErrValidation, "cannot propose an exchange for your own listing")
	ErrMessageTooLong           = apperr.New(apperr.ErrValidation, "message is too long")
)
