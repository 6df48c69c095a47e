package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/messaging/domain"
	"zirako/internal/service/messaging/infrastructure"
	rewardinfra "zirako/internal/service/reward/infrastructure"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type stubAccounts map[int64]*domain.Participant

func (s stubAccounts) FindParticipant(_ context.Context, id int64) (*domain.Participant, error) {
	return s[id], nil
}

type stubListings map[int64]*domain.ListingRef

func (s stubListings) FindListing(_ context.Context, id int64) (*domain.ListingRef, error) {
	return s[id], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.ChatEvent
	fail   bool
}

func (p *recordingPublisher) PublishChat(_ context.Context, e *domain.ChatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, e)
	return nil
}

type recordingOwnerNotifier struct {
	contacted []int64
	replyTo   []string
	fail      bool
}

func (n *recordingOwnerNotifier) ContactOwner(_ context.Context, sender *domain.Participant, listing *domain.ListingRef, _ string) error {
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.contacted = append(n.contacted, listing.OwnerID)
	n.replyTo = append(n.replyTo, sender.Email)
	return nil
}

// rollbackTx 在 fn 失败时恢复内存仓储
type rollbackTx struct {
	inner rewardinfra.SerialTx
	repo  *infrastructure.MemoryRepository
}

func (t *rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.inner.WithinTx(ctx, func(ctx context.Context) error {
		restore := t.repo.Snapshot()
		if err := fn(ctx); err != nil {
			restore()
			return err
		}
		return nil
	})
}

type fixture struct {
	svc       *MessagingService
	repo      *infrastructure.MemoryRepository
	publisher *recordingPublisher
	notifier  *recordingOwnerNotifier
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := infrastructure.NewMemoryRepository()
	repo.SetName(1, "Ana")
	repo.SetName(2, "Luis")
	accounts := stubAccounts{
		1: {ID: 1, Name: "Ana", Email: "ana@example.com"},
		2: {ID: 2, Name: "Luis", Email: "luis@example.com"},
		3: {ID: 3, Name: "Marta", Email: "marta@example.com"},
	}
	listings := stubListings{10: {ID: 10, OwnerID: 2, Title: "Bicicleta", Price: "$ 150.000"}}
	f := &fixture{
		repo:      repo,
		publisher: &recordingPublisher{},
		notifier:  &recordingOwnerNotifier{},
		clock:     fixedNow,
	}
	f.svc = NewMessagingService(repo, accounts, listings, f.publisher, f.notifier, &rollbackTx{repo: repo}, noop.NewTracerProvider().Tracer("test"))
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func TestSendPublishesChatEvent(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.Send(context.Background(), 1, &SendRequest{RecipientID: 2, Content: "¿Sigue disponible?"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, int64(2), f.publisher.events[0].RecipientID)
	assert.Equal(t, "Ana", f.publisher.events[0].SenderName)
}

func TestSendRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, 1, &SendRequest{RecipientID: 1, Content: "hola"})
	assert.ErrorIs(t, err, domain.ErrSelfMessage)

	_, err = f.svc.Send(ctx, 1, &SendRequest{RecipientID: 99, Content: "hola"})
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	missing := int64(77)
	_, err = f.svc.Send(ctx, 1, &SendRequest{RecipientID: 2, Content: "hola", ListingID: &missing})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	assert.Zero(t, f.repo.Count())
	assert.Empty(t, f.publisher.events)
}

func TestSendSurvivesPushFailure(t *testing.T) {
	f := newFixture(t)
	f.publisher.fail = true

	_, err := f.svc.Send(context.Background(), 1, &SendRequest{RecipientID: 2, Content: "hola"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.Count())
}

func TestConversationMarksIncomingRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, 1, &SendRequest{RecipientID: 2, Content: "hola"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, 2, &SendRequest{RecipientID: 1, Content: "buenas"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, 3, &SendRequest{RecipientID: 1, Content: "otro hilo"})
	require.NoError(t, err)

	cs, err := f.svc.Conversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, int64(3), cs[0].CounterpartID)
	assert.Equal(t, int64(2), cs[1].CounterpartID)
	assert.Equal(t, "buenas", cs[1].LastMessage)
	assert.Equal(t, int64(1), cs[1].Unread)

	views, err := f.svc.Conversation(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "hola", views[0].Content)
	assert.Equal(t, "Luis", views[1].SenderName)

	cs, err = f.svc.Conversations(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, cs[1].Unread)
	assert.Equal(t, int64(1), cs[0].Unread)

	// 对方视角下自己发出的私信不受影响
	cs, err = f.svc.Conversations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, int64(1), cs[0].Unread)
}

func TestContactOwner(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.ContactOwner(context.Background(), 1, &ContactOwnerRequest{ListingID: 10, Message: "Me interesa"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.RecipientID)
	require.NotNil(t, m.ListingID)
	assert.Equal(t, int64(10), *m.ListingID)

	assert.Equal(t, []int64{2}, f.notifier.contacted)
	assert.Equal(t, []string{"ana@example.com"}, f.notifier.replyTo)
	assert.Len(t, f.publisher.events, 1)
}

func TestContactOwnerRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ContactOwner(ctx, 2, &ContactOwnerRequest{ListingID: 10, Message: "hola"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.ContactOwner(ctx, 1, &ContactOwnerRequest{ListingID: 11, Message: "hola"})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	assert.Zero(t, f.repo.Count())
}

func TestContactOwnerRollsBackWhenEmailFails(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true

	_, err := f.svc.ContactOwner(context.Background(), 1, &ContactOwnerRequest{ListingID: 10, Message: "Me interesa"})
	require.Error(t, err)
	assert.Zero(t, f.repo.Count())
	assert.Empty(t, f.publisher.events)
}
