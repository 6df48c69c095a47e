package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/notification/domain"
)

type mapDirectory map[int64]Recipient

func (d mapDirectory) Lookup(_ context.Context, id int64) (*Recipient, error) {
	r, ok := d[id]
	if !ok {
		return nil, ErrRecipientNotFound
	}
	return &r, nil
}

type outbox struct {
	sent []Mail
	err  error
}

func (o *outbox) Send(_ context.Context, m *Mail) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, *m)
	return nil
}

func newDispatcher(box *outbox) *Dispatcher {
	dir := mapDirectory{
		7: {Email: "ana@example.com", Name: "Ana"},
		8: {Email: "luis@example.com", Name: "Luis <admin>"},
	}
	return NewDispatcher(dir, box, "https://zirako.co", noop.NewTracerProvider().Tracer("test"))
}

func TestDispatchResolvesRecipient(t *testing.T) {
	box := &outbox{}
	e := domain.NewEvent(domain.EventExchangeProposed, 7, map[string]string{
		"actor_id":        "8",
		"offered_title":   "Bicicleta",
		"requested_title": "Guitarra",
	})

	require.NoError(t, newDispatcher(box).Dispatch(context.Background(), e))
	require.Len(t, box.sent, 1)
	m := box.sent[0]
	assert.Equal(t, "ana@example.com", m.To)
	assert.Equal(t, `🔄 Nueva solicitud de intercambio para "Guitarra"`, m.Subject)
	assert.Contains(t, m.HTML, "Hola, Ana")
	assert.Contains(t, m.HTML, "Luis &lt;admin&gt;")
	assert.Contains(t, m.HTML, "https://zirako.co/perfil/intercambios")
}

func TestDispatchToExplicitAddress(t *testing.T) {
	box := &outbox{}
	e := domain.NewEvent(domain.EventSupportChat, 0, map[string]string{"name": "Invitado", "email": "x@y.co", "message": "hola"}).
		ToAddress("soporte@zirako.co").
		WithReplyTo("x@y.co")

	require.NoError(t, newDispatcher(box).Dispatch(context.Background(), e))
	require.Len(t, box.sent, 1)
	assert.Equal(t, "soporte@zirako.co", box.sent[0].To)
	assert.Equal(t, "x@y.co", box.sent[0].ReplyTo)
	assert.Equal(t, "💬 Chat de soporte: Invitado", box.sent[0].Subject)
}

func TestDispatchErrors(t *testing.T) {
	box := &outbox{}
	d := newDispatcher(box)

	err := d.Dispatch(context.Background(), domain.NewEvent(domain.EventWelcome, 99, nil))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = d.Dispatch(context.Background(), domain.NewEvent("sms", 7, nil))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	box.err = errors.New("421 service not available")
	err = d.Dispatch(context.Background(), domain.NewEvent(domain.EventWelcome, 7, nil))
	assert.ErrorContains(t, err, "421")
	assert.Empty(t, box.sent)
}

func TestEveryEventTypeRenders(t *testing.T) {
	types := []domain.EventType{
		domain.EventWelcome, domain.EventVerifyEmail, domain.EventPasswordReset,
		domain.EventExchangeProposed, domain.EventExchangeDecided, domain.EventPickupScheduled,
		domain.EventPickupReminder, domain.EventTicketCreated, domain.EventTicketReceived,
		domain.EventSupportChat, domain.EventContactOwner,
	}
	for _, typ := range types {
		subject, body, err := Render(typ, map[string]string{"name": "Ana", "points": "30"})
		require.NoError(t, err, typ)
		assert.NotEmpty(t, subject, typ)
		assert.Contains(t, body, "<!DOCTYPE html>", typ)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "150.000", formatNumber("150000"))
	assert.Equal(t, "abc", formatNumber("abc"))
	assert.Equal(t, "", formatNumber(""))
}
