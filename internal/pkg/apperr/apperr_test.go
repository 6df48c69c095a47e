package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var errNotOwner = New(ErrForbidden, "not owner")

func TestKindsAreDistinguishable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("bad %s", "input"), ErrValidation},
		{"not found", NotFound("missing"), ErrNotFound},
		{"forbidden", Forbidden("nope"), ErrForbidden},
		{"invalid state", InvalidState("already decided"), ErrInvalidState},
		{"conflict", Conflict("duplicate"), ErrConflict},
		{"unauthorized", Unauthorized("login"), ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.kind, KindOf(tt.err))
			for _, other := range tests {
				if other.kind != tt.kind {
					assert.NotErrorIs(t, tt.err, other.kind)
				}
			}
		})
	}
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	wrapped := errors.Wrap(errNotOwner, "propose exchange")

	assert.ErrorIs(t, wrapped, errNotOwner)
	assert.ErrorIs(t, wrapped, ErrForbidden)
	assert.Equal(t, "not owner", Message(wrapped))
}

func TestCauseIsReachable(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Kind: ErrNotFound, Msg: "account 7", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "account 7: connection reset", err.Error())
	assert.Nil(t, KindOf(cause))
}
