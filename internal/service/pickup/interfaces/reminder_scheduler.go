// internal/service/pickup/interfaces/reminder_scheduler.go
package interfaces

import (
	"context"
	"time"

	"zirako/internal/pkg/logger"
)

// Sweeper 执行一轮提醒
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Locker 是跨实例互斥锁，保证同一时刻只有一个实例在扫描
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// ReminderScheduler 按固定间隔在分布式锁内运行提醒扫描
type ReminderScheduler struct {
	sweeper  Sweeper
	lock     Locker
	interval time.Duration
	// lockWait 是每轮等待锁的上限，拿不到锁时跳过本轮
	lockWait time.Duration
}

func NewReminderScheduler(sweeper Sweeper, lock Locker, interval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{sweeper: sweeper, lock: lock, interval: interval, lockWait: interval / 2}
}

// Run 立即执行一轮，之后每个间隔执行一轮，直到 ctx 结束
func (s *ReminderScheduler) Run(ctx context.Context) {
	logger.Ctx(ctx).Info().Dur("interval", s.interval).Msg("✅ Pickup reminder scheduler started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			logger.Ctx(ctx).Info().Msg("🛑 Shutting down pickup reminder scheduler")
			return
		}
	}
}

// RunOnce 获取锁并执行一轮扫描，返回发出的提醒数
func (s *ReminderScheduler) RunOnce(ctx context.Context) int {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	if err := s.lock.Lock(lockCtx); err != nil {
		logger.Ctx(ctx).Debug().Err(err).Msg("reminder lock not acquired, skipping round")
		return 0
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("failed to release reminder lock")
		}
	}()

	sent, err := s.sweeper.Sweep(ctx)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Int("sent", sent).Msg("pickup reminder sweep failed")
		return sent
	}
	if sent > 0 {
		logger.Ctx(ctx).Info().Int("sent", sent).Msg("pickup reminders sent")
	}
	return sent
}
