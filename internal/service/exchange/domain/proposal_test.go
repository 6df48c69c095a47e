package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zirako/internal/pkg/apperr"
)

var now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func TestNewProposal(t *testing.T) {
	bike := &Listing{ID: 1, OwnerID: 10, Title: "Bicicleta"}
	lamp := &Listing{ID: 2, OwnerID: 20, Title: "Lámpara"}

	tests := []struct {
		name      string
		proposer  int64
		offered   *Listing
		requested *Listing
		message   string
		wantErr   error
		wantKind  error
	}{
		{"offered missing", 10, nil, lamp, "", ErrNotOwner, apperr.ErrForbidden},
		{"offered not owned", 30, bike, lamp, "", ErrNotOwner, apperr.ErrForbidden},
		{"requested missing", 10, bike, nil, "", ErrRequestedListingNotFound, apperr.ErrNotFound},
		{"self exchange", 10, bike, &Listing{ID: 3, OwnerID: 10}, "", ErrSelfExchange, apperr.ErrValidation},
		{"message too long", 10, bike, lamp, string(make([]rune, 1001)), ErrMessageTooLong, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProposal(tt.proposer, tt.offered, tt.requested, tt.message, now)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}

	p, err := NewProposal(10, bike, lamp, "¿cambiamos?", now)
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.ReceiverID)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, int64(1), p.OfferedListingID)
	assert.Equal(t, int64(2), p.RequestedListingID)
}

func TestDecide(t *testing.T) {
	newPending := func() *Proposal {
		return &Proposal{ID: 1, ProposerID: 10, ReceiverID: 20, Status: StatusPending}
	}

	p := newPending()
	assert.ErrorIs(t, p.Decide(10, StatusAccepted, now), ErrNotReceiver)
	assert.Equal(t, StatusPending, p.Status)

	p = newPending()
	assert.ErrorIs(t, p.Decide(20, StatusPending, now), apperr.ErrValidation)

	p = newPending()
	assert.Nil(t, p.DecidedAt)
	require.NoError(t, p.Decide(20, StatusRejected, now))
	assert.Equal(t, StatusRejected, p.Status)
	require.NotNil(t, p.DecidedAt)
	assert.True(t, p.DecidedAt.Equal(now))
	assert.True(t, p.Status.IsTerminal())

	err := p.Decide(20, StatusAccepted, now)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, StatusRejected, p.Status)
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, d)

	for _, bad := range []string{"", "pending", "ACCEPTED", "aceptado"} {
		_, err := ParseDecision(bad)
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}
}
