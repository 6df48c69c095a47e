package application

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/exchange/domain"
	rewardapp "zirako/internal/service/reward/application"
	rewarddomain "zirako/internal/service/reward/domain"
	rewardinfra "zirako/internal/service/reward/infrastructure"
)

type memProposals struct {
	mu     sync.Mutex
	rows   map[int64]domain.Proposal
	nextID int64
}

func newMemProposals() *memProposals {
	return &memProposals{rows: map[int64]domain.Proposal{}}
}

func (m *memProposals) Get(_ context.Context, id int64) (*domain.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return &p, nil
}

func (m *memProposals) Insert(_ context.Context, p *domain.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = *p
	return nil
}

func (m *memProposals) UpdateStatus(_ context.Context, id int64, from, to domain.Status, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.Status != from {
		return domain.ErrAlreadyDecided
	}
	p.Status, p.UpdatedAt, p.DecidedAt = to, at, &at
	m.rows[id] = p
	return nil
}

func (m *memProposals) ListForAccount(_ context.Context, accountID int64, status *domain.Status) ([]domain.ProposalView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ProposalView
	for _, p := range m.rows {
		if p.ProposerID != accountID && p.ReceiverID != accountID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, domain.ProposalView{Proposal: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memProposals) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memProposals) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make(map[int64]domain.Proposal, len(m.rows))
	for k, v := range m.rows {
		rows[k] = v
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rows = rows
	}
}

type memListings map[int64]*domain.Listing

func (m memListings) FindListing(_ context.Context, id int64) (*domain.Listing, error) {
	return m[id], nil
}

type recordingNotifier struct {
	fail     bool
	proposed atomic.Int32
	decided  atomic.Int32
}

func (n *recordingNotifier) ExchangeProposed(context.Context, *domain.Proposal, *domain.Listing, *domain.Listing) error {
	n.proposed.Add(1)
	if n.fail {
		return errors.New("kafka unavailable")
	}
	return nil
}

func (n *recordingNotifier) ExchangeDecided(context.Context, *domain.Proposal) error {
	n.decided.Add(1)
	if n.fail {
		return errors.New("kafka unavailable")
	}
	return nil
}

// rollbackTx 串行执行事务，fn 失败时把两个内存仓储恢复到事务开始前
type rollbackTx struct {
	serial    rewardinfra.SerialTx
	proposals *memProposals
	rewards   *rewardinfra.MemoryRepository
}

func (t *rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.serial.WithinTx(ctx, func(ctx context.Context) error {
		restoreProposals := t.proposals.snapshot()
		restoreRewards := t.rewards.Snapshot()
		if err := fn(ctx); err != nil {
			restoreProposals()
			restoreRewards()
			return err
		}
		return nil
	})
}

// failingGranter 在第 n 次调用时失败
type failingGranter struct {
	inner  *rewardapp.RewardService
	failAt int32
	calls  atomic.Int32
}

func (g *failingGranter) Grant(ctx context.Context, accountID int64, kind rewarddomain.ActionKind, ref rewarddomain.Ref) (*rewarddomain.Grant, error) {
	if g.calls.Add(1) == g.failAt {
		return nil, errors.New("deadlock found when trying to get lock")
	}
	return g.inner.Grant(ctx, accountID, kind, ref)
}

const (
	alice = int64(1)
	bob   = int64(2)
	carol = int64(3)
)

type fixture struct {
	svc       *ExchangeService
	proposals *memProposals
	rewards   *rewardinfra.MemoryRepository
	notifier  *recordingNotifier
	granter   *failingGranter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	rewards := rewardinfra.NewMemoryRepository()
	for _, id := range []int64{alice, bob, carol} {
		rewards.Seed(id, 0, rewarddomain.TierBronze)
	}
	proposals := newMemProposals()
	tx := &rollbackTx{proposals: proposals, rewards: rewards}
	granter := &failingGranter{inner: rewardapp.NewRewardService(rewards, tx, tracer)}
	listings := memListings{
		10: {ID: 10, OwnerID: alice, Title: "Bicicleta"},
		20: {ID: 20, OwnerID: bob, Title: "Guitarra"},
		30: {ID: 30, OwnerID: carol, Title: "Libros"},
	}
	notifier := &recordingNotifier{}
	return &fixture{
		svc:       NewExchangeService(proposals, listings, granter, notifier, tx, tracer),
		proposals: proposals,
		rewards:   rewards,
		notifier:  notifier,
		granter:   granter,
	}
}

func (f *fixture) points(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.rewards.GetPoints(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestProposeAndAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20, Message: "¿cambiamos?"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Equal(t, bob, p.ReceiverID)
	assert.EqualValues(t, 1, f.notifier.proposed.Load())
	assert.Nil(t, p.DecidedAt)

	decided, err := f.svc.Decide(ctx, bob, p.ID, domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, decided.Status)
	require.NotNil(t, decided.DecidedAt)
	stored, err := f.proposals.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DecidedAt)
	assert.True(t, stored.DecidedAt.Equal(*decided.DecidedAt))

	assert.Equal(t, int64(30), f.points(t, alice))
	assert.Equal(t, int64(30), f.points(t, bob))
	for _, id := range []int64{alice, bob} {
		actions := f.rewards.Actions(id)
		require.Len(t, actions, 1)
		assert.Equal(t, rewarddomain.ActionExchange, actions[0].Kind)
		assert.True(t, decimal.NewFromInt(2).Equal(actions[0].Co2Kg))
	}
	assert.EqualValues(t, 1, f.notifier.decided.Load())
}

func TestRejectGrantsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, bob, p.ID, domain.StatusRejected)
	require.NoError(t, err)

	assert.Zero(t, f.points(t, alice))
	assert.Zero(t, f.points(t, bob))
	stored, _ := f.proposals.Get(ctx, p.ID)
	assert.Equal(t, domain.StatusRejected, stored.Status)
}

func TestSecondDecisionIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, bob, p.ID, domain.StatusAccepted)
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, bob, p.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	stored, _ := f.proposals.Get(ctx, p.ID)
	assert.Equal(t, domain.StatusAccepted, stored.Status)
	assert.Equal(t, int64(30), f.points(t, alice))
	assert.Equal(t, int64(30), f.points(t, bob))
}

func TestConcurrentAcceptsGrantOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	var ok, invalid atomic.Int32
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Decide(ctx, bob, p.ID, domain.StatusAccepted)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperr.ErrInvalidState):
				invalid.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, racers-1, invalid.Load())
	assert.Equal(t, int64(30), f.points(t, alice))
	assert.Equal(t, int64(30), f.points(t, bob))
}

func TestProposeErrors(t *testing.T) {
	tests := []struct {
		name string
		req  ProposeRequest
		kind error
	}{
		{"offered not owned", ProposeRequest{OfferedListingID: 30, RequestedListingID: 20}, apperr.ErrForbidden},
		{"offered missing", ProposeRequest{OfferedListingID: 99, RequestedListingID: 20}, apperr.ErrForbidden},
		{"requested missing", ProposeRequest{OfferedListingID: 10, RequestedListingID: 99}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Propose(context.Background(), alice, &tt.req)
			assert.ErrorIs(t, err, tt.kind)
			assert.Zero(t, f.proposals.count())
			assert.Zero(t, f.notifier.proposed.Load())
		})
	}
}

func TestDecideErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, bob, 999, domain.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Decide(ctx, alice, p.ID, domain.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Decide(ctx, carol, p.ID, domain.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	stored, _ := f.proposals.Get(ctx, p.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestNotificationFailureDoesNotFailOperations(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, f.proposals.count())

	_, err = f.svc.Decide(ctx, bob, p.ID, domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(30), f.points(t, bob))
}

func TestPartialGrantFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)

	// 第二次发放（接收方）失败
	f.granter.failAt = 2
	_, err = f.svc.Decide(ctx, bob, p.ID, domain.StatusAccepted)
	require.Error(t, err)

	assert.Zero(t, f.points(t, alice))
	assert.Zero(t, f.points(t, bob))
	assert.Empty(t, f.rewards.Actions(alice))
	stored, _ := f.proposals.Get(ctx, p.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Zero(t, f.notifier.decided.Load())
}

func TestListFiltersByParticipantAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)
	_, err = f.svc.Propose(ctx, carol, &ProposeRequest{OfferedListingID: 30, RequestedListingID: 10})
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, bob, p1.ID, domain.StatusRejected)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, alice, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rejected := domain.StatusRejected
	onlyRejected, err := f.svc.List(ctx, alice, &rejected)
	require.NoError(t, err)
	require.Len(t, onlyRejected, 1)
	assert.Equal(t, p1.ID, onlyRejected[0].ID)

	forBob, err := f.svc.List(ctx, bob, nil)
	require.NoError(t, err)
	assert.Len(t, forBob, 1)
}

func TestProposalResponseCarriesDecisionTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Propose(ctx, alice, &ProposeRequest{OfferedListingID: 10, RequestedListingID: 20})
	require.NoError(t, err)
	raw, err := json.Marshal(ToProposalResponse(p))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "decided_at")

	decided, err := f.svc.Decide(ctx, bob, p.ID, domain.StatusRejected)
	require.NoError(t, err)
	raw, err = json.Marshal(ToProposalResponse(decided))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"decided_at"`)
}
