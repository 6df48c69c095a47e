package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/pickup/domain"
	"zirako/internal/service/pickup/infrastructure"
	rewardapp "zirako/internal/service/reward/application"
	rewarddomain "zirako/internal/service/reward/domain"
	rewardinfra "zirako/internal/service/reward/infrastructure"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu        sync.Mutex
	scheduled []int64
	reminded  []int64
	points    int64
	fail      bool
}

func (n *recordingNotifier) PickupScheduled(_ context.Context, p *domain.Pickup, points int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.scheduled = append(n.scheduled, p.ID)
	n.points = points
	return nil
}

func (n *recordingNotifier) PickupReminder(_ context.Context, p *domain.Pickup) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("broker unavailable")
	}
	n.reminded = append(n.reminded, p.ID)
	return nil
}

// rollbackTx 在 fn 失败时恢复两个内存仓储
type rollbackTx struct {
	inner   rewardinfra.SerialTx
	pickups *infrastructure.MemoryRepository
	rewards *rewardinfra.MemoryRepository
}

func (t *rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.inner.WithinTx(ctx, func(ctx context.Context) error {
		restorePickups, restoreRewards := t.pickups.Snapshot(), t.rewards.Snapshot()
		if err := fn(ctx); err != nil {
			restorePickups()
			restoreRewards()
			return err
		}
		return nil
	})
}

type fixture struct {
	svc      *PickupService
	sweeper  *ReminderSweeper
	repo     *infrastructure.MemoryRepository
	rewards  *rewardinfra.MemoryRepository
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	repo := infrastructure.NewMemoryRepository()
	rewards := rewardinfra.NewMemoryRepository()
	rewards.Seed(1, 0, rewarddomain.TierBronze)
	rewards.Seed(2, 490, rewarddomain.TierBronze)
	tx := &rollbackTx{pickups: repo, rewards: rewards}
	notifier := &recordingNotifier{}

	svc := NewPickupService(repo, rewardapp.NewRewardService(rewards, tx, tracer), notifier, tx, tracer)
	svc.now = func() time.Time { return fixedNow }
	sweeper := NewReminderSweeper(repo, notifier, tx, tracer)
	sweeper.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, sweeper: sweeper, repo: repo, rewards: rewards, notifier: notifier}
}

func request(date string) *ScheduleRequest {
	return &ScheduleRequest{Address: "Calle 5 # 10-20", City: "Cali", Date: date, Slot: "10:00 - 12:00", Description: "Electrodomésticos viejos"}
}

func TestScheduleGrantsPickupReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Schedule(ctx, 2, request("2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.PointsEarned)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "REC-1", res.Reference)

	points, err := f.rewards.GetPoints(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(510), points)
	assert.Equal(t, rewarddomain.TierSilver, f.rewards.Tier(2))

	actions := f.rewards.Actions(2)
	require.Len(t, actions, 1)
	assert.Equal(t, rewarddomain.ActionPickup, actions[0].Kind)
	assert.True(t, decimal.RequireFromString("0.5").Equal(actions[0].Co2Kg))

	assert.Equal(t, []int64{res.ID}, f.notifier.scheduled)
	assert.Equal(t, int64(20), f.notifier.points)
}

func TestScheduleSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true

	_, err := f.svc.Schedule(context.Background(), 1, request("2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.Count())
}

func TestScheduleRollsBackWhenGrantFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), 99, request("2026-03-12"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, f.repo.Count())
	assert.Empty(t, f.notifier.scheduled)
}

func TestScheduleValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), 1, request("2026-03-09"))
	assert.ErrorIs(t, err, domain.ErrDateInPast)
	assert.Zero(t, f.repo.Count())
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Schedule(ctx, 1, request("2026-03-12"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, 2, res.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.Cancel(ctx, 1, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p, err := f.svc.Cancel(ctx, 1, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, p.Status)

	_, err = f.svc.Cancel(ctx, 1, res.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// 取消不收回积分
	points, err := f.rewards.GetPoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), points)

	list, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusCancelled, list[0].Status)
}

func TestReminderSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tomorrowA, err := f.svc.Schedule(ctx, 1, request("2026-03-11"))
	require.NoError(t, err)
	tomorrowB, err := f.svc.Schedule(ctx, 2, request("2026-03-11"))
	require.NoError(t, err)
	_, err = f.svc.Schedule(ctx, 1, request("2026-03-12"))
	require.NoError(t, err)
	cancelled, err := f.svc.Schedule(ctx, 2, request("2026-03-11"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, 2, cancelled.ID)
	require.NoError(t, err)

	f.notifier.fail = true
	sent, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	// 发布失败时标记已回滚，下一轮重试
	f.notifier.fail = false
	sent, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []int64{tomorrowA.ID, tomorrowB.ID}, f.notifier.reminded)

	sent, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	p, err := f.repo.Get(ctx, tomorrowA.ID)
	require.NoError(t, err)
	require.NotNil(t, p.ReminderSentAt)
}

func TestConcurrentSweepsRemindOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.svc.Schedule(ctx, 1, request("2026-03-11"))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.sweeper.Sweep(ctx)
		}()
	}
	wg.Wait()
	assert.Len(t, f.notifier.reminded, 5)
}
