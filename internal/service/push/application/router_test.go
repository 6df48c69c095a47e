package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	messaging "zirako/internal/service/messaging/domain"
)

type stubSessions struct {
	nodes map[int64]string
	err   error
}

func (s stubSessions) GetUserGateway(_ context.Context, accountID int64) (string, error) {
	return s.nodes[accountID], s.err
}

type forwarded struct {
	topic string
	key   string
	value string
}

type recordingForwarder struct {
	sent []forwarded
	fail bool
}

func (f *recordingForwarder) Forward(_ context.Context, topic string, key, value []byte) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, forwarded{topic: topic, key: string(key), value: string(value)})
	return nil
}

func TestRouteForwardsToRecipientNode(t *testing.T) {
	fwd := &recordingForwarder{}
	r := NewRouter(stubSessions{nodes: map[int64]string{2: "node-a"}}, fwd, "push-", noop.NewTracerProvider().Tracer("test"))

	ok, err := r.Route(context.Background(), &messaging.ChatEvent{MessageID: 1, SenderID: 1, RecipientID: 2}, []byte(`{"message_id":1}`))
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, fwd.sent, 1)
	assert.Equal(t, forwarded{topic: "push-node-a", key: "2", value: `{"message_id":1}`}, fwd.sent[0])
}

func TestRouteSkipsOfflineRecipient(t *testing.T) {
	fwd := &recordingForwarder{}
	r := NewRouter(stubSessions{}, fwd, "push-", noop.NewTracerProvider().Tracer("test"))

	ok, err := r.Route(context.Background(), &messaging.ChatEvent{MessageID: 1, RecipientID: 3}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, fwd.sent)
}

func TestRouteReturnsLookupAndForwardErrors(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	e := &messaging.ChatEvent{MessageID: 1, RecipientID: 2}

	_, err := NewRouter(stubSessions{err: errors.New("redis down")}, &recordingForwarder{}, "push-", tracer).Route(context.Background(), e, nil)
	assert.Error(t, err)

	_, err = NewRouter(stubSessions{nodes: map[int64]string{2: "node-a"}}, &recordingForwarder{fail: true}, "push-", tracer).Route(context.Background(), e, nil)
	assert.Error(t, err)
}
