package application

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/support/domain"
	"zirako/internal/service/support/infrastructure"
	"zirako/internal/service/support/infrastructure/rule"
)

type recordingNotifier struct {
	mu       sync.Mutex
	created  []int64
	received []int64
	chats    []string
	fail     bool
}

func (n *recordingNotifier) TicketCreated(_ context.Context, t *domain.Ticket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.created = append(n.created, t.ID)
	return nil
}

func (n *recordingNotifier) TicketReceived(_ context.Context, t *domain.Ticket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.received = append(n.received, t.ID)
	return nil
}

func (n *recordingNotifier) SupportChat(_ context.Context, from domain.Contact, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.chats = append(n.chats, from.Email+": "+message)
	return nil
}

func newService(t *testing.T) (*SupportService, *infrastructure.MemoryRepository, *recordingNotifier) {
	t.Helper()
	triager, err := rule.NewCELTriager([]domain.TriageRule{
		{Name: "payments", Expression: `subject.lowerAscii().contains("pago")`, Priority: domain.PriorityHigh},
		{Name: "feedback", Expression: `category == "sugerencia"`, Priority: domain.PriorityLow},
	})
	require.NoError(t, err)
	repo := infrastructure.NewMemoryRepository()
	notifier := &recordingNotifier{}
	return NewSupportService(repo, triager, notifier, noop.NewTracerProvider().Tracer("test")), repo, notifier
}

func ticket(subject, category, priority string) *CreateTicketRequest {
	return &CreateTicketRequest{Name: "Ana", Email: "Ana@Example.com", Subject: subject, Message: "Detalle", Category: category, Priority: priority}
}

func TestCreateTicketPriority(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *CreateTicketRequest
		want domain.Priority
	}{
		{"explicit wins over rules", ticket("Pago rechazado", "", "baja"), domain.PriorityLow},
		{"rule match", ticket("Pago rechazado", "", ""), domain.PriorityHigh},
		{"invalid explicit falls back to rules", ticket("Idea", "Sugerencia", "urgente"), domain.PriorityLow},
		{"default", ticket("Hola", "", ""), domain.PriorityMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CreateTicket(ctx, 0, tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Priority)
			assert.Equal(t, domain.StatusOpen, got.Status)
			assert.Equal(t, "ana@example.com", got.Email)
		})
	}
}

func TestCreateTicketWithoutTriager(t *testing.T) {
	svc := NewSupportService(infrastructure.NewMemoryRepository(), nil, &recordingNotifier{}, noop.NewTracerProvider().Tracer("test"))

	got, err := svc.CreateTicket(context.Background(), 0, ticket("Pago", "", ""))
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
}

func TestCreateTicketNotifiesBestEffort(t *testing.T) {
	svc, repo, notifier := newService(t)
	ctx := context.Background()

	got, err := svc.CreateTicket(ctx, 5, ticket("Hola", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []int64{got.ID}, notifier.created)
	assert.Equal(t, []int64{got.ID}, notifier.received)

	notifier.fail = true
	_, err = svc.CreateTicket(ctx, 5, ticket("Otra", "", ""))
	require.NoError(t, err)
	assert.Len(t, repo.All(), 2)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, 0, &CreateTicketRequest{Name: "Ana", Email: "ana@example.com", Subject: "Hola"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.CreateTicket(ctx, 0, &CreateTicketRequest{Name: "Ana", Email: "no-es-email", Subject: "Hola", Message: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, repo.All())
}

func TestListTicketsOnlyOwn(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, 5, ticket("Mío", "", ""))
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, 6, ticket("Ajeno", "", ""))
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, 0, ticket("Anónimo", "", ""))
	require.NoError(t, err)

	ts, err := svc.ListTickets(ctx, 5, nil)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "Mío", ts[0].Subject)

	closed := domain.StatusClosed
	ts, err = svc.ListTickets(ctx, 5, &closed)
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestChat(t *testing.T) {
	svc, _, notifier := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Chat(ctx, &ChatRequest{Name: "Ana", Email: "ana@example.com", Message: "¿Recogen muebles?"}))
	assert.Equal(t, []string{"ana@example.com: ¿Recogen muebles?"}, notifier.chats)

	assert.ErrorIs(t, svc.Chat(ctx, &ChatRequest{Name: "Ana", Email: "ana@example.com"}), apperr.ErrValidation)

	notifier.fail = true
	err := svc.Chat(ctx, &ChatRequest{Name: "Ana", Email: "ana@example.com", Message: "Hola"})
	require.Error(t, err)
	assert.Nil(t, apperr.KindOf(err))
}
