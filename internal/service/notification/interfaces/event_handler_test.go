package interfaces

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/mq"
	"zirako/internal/service/notification/domain"
)

type dispatchFunc func(ctx context.Context, e *domain.Event) error

func (f dispatchFunc) Dispatch(ctx context.Context, e *domain.Event) error { return f(ctx, e) }

func TestEventHandlerClassifiesErrors(t *testing.T) {
	body, err := json.Marshal(domain.NewEvent(domain.EventWelcome, 7, nil))
	require.NoError(t, err)

	var got *domain.Event
	ok := NewEventHandler(dispatchFunc(func(_ context.Context, e *domain.Event) error {
		got = e
		return nil
	}))
	require.NoError(t, ok(context.Background(), kafka.Message{Value: body}))
	assert.Equal(t, domain.EventWelcome, got.Type)
	assert.Equal(t, int64(7), got.RecipientID)

	assert.True(t, mq.IsPermanent(ok(context.Background(), kafka.Message{Value: []byte("{")})))

	missing := NewEventHandler(dispatchFunc(func(context.Context, *domain.Event) error {
		return apperr.NotFound("recipient not found")
	}))
	assert.True(t, mq.IsPermanent(missing(context.Background(), kafka.Message{Value: body})))

	transient := NewEventHandler(dispatchFunc(func(context.Context, *domain.Event) error {
		return errors.New("dial tcp: connection refused")
	}))
	err = transient(context.Background(), kafka.Message{Value: body})
	require.Error(t, err)
	assert.False(t, mq.IsPermanent(err))
}

func TestDeadLetterHandlerAlwaysSucceeds(t *testing.T) {
	assert.NoError(t, DeadLetterHandler(context.Background(), kafka.Message{Key: []byte("k")}))
}
