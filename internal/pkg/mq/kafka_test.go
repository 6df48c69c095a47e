package mq

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestProduceMessageInjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	w := &recordingWriter{}
	require.NoError(t, ProduceMessage(ctx, w, []byte("42"), []byte(`{"k":"v"}`)))
	require.Len(t, w.msgs, 1)
	assert.Contains(t, Header(w.msgs[0].Headers, "traceparent"), traceID.String())

	restored := ExtractTraceContext(context.Background(), w.msgs[0].Headers)
	assert.Equal(t, traceID, trace.SpanContextFromContext(restored).TraceID())
}

func TestProduceMessageWrapsWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	err := ProduceMessage(context.Background(), w, nil, []byte("x"))
	assert.ErrorContains(t, err, "broker down")
}

func TestForwardToDLTKeepsOriginAndCause(t *testing.T) {
	w := &recordingWriter{}
	src := kafka.Message{Topic: "notifications", Partition: 2, Offset: 99, Key: []byte("7"), Value: []byte("{}")}

	require.NoError(t, ForwardToDLT(context.Background(), w, src, errors.New("smtp timeout"), 3))
	require.Len(t, w.msgs, 1)
	h := w.msgs[0].Headers
	assert.Equal(t, "notifications", Header(h, HeaderOriginalTopic))
	assert.Equal(t, "2", Header(h, HeaderOriginalPartition))
	assert.Equal(t, "99", Header(h, HeaderOriginalOffset))
	assert.Equal(t, "smtp timeout", Header(h, HeaderExceptionMessage))
	assert.Equal(t, "3", Header(h, HeaderRetryCount))
	assert.Equal(t, []byte("7"), w.msgs[0].Key)
}

func TestCarrierSetOverwrites(t *testing.T) {
	c := KafkaHeaderCarrier{}
	c.Set("a", "1")
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}
