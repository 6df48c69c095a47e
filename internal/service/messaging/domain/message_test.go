package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zirako/internal/pkg/apperr"
)

func TestNewMessage(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	m, err := NewMessage(1, 2, "  hola  ", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "hola", m.Content)
	assert.False(t, m.Read)
	assert.Equal(t, now, m.CreatedAt)

	_, err = NewMessage(1, 1, "hola", nil, now)
	assert.ErrorIs(t, err, ErrSelfMessage)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = NewMessage(1, 2, "   ", nil, now)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage(1, 2, strings.Repeat("ñ", maxContentLength), nil, now)
	assert.NoError(t, err)
	_, err = NewMessage(1, 2, strings.Repeat("ñ", maxContentLength+1), nil, now)
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestChatEventPartitionKey(t *testing.T) {
	listing := int64(9)
	m := &Message{ID: 5, SenderID: 1, RecipientID: 42, ListingID: &listing, Content: "hola"}
	e := NewChatEvent(m, "Ana")
	assert.Equal(t, "42", e.PartitionKey())
	assert.Equal(t, "Ana", e.SenderName)
	assert.Equal(t, &listing, e.ListingID)
}
