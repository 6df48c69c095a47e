// internal/service/pickup/application/reminder.go
package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/metrics"
	"zirako/internal/service/pickup/domain"
	"zirako/internal/service/pickup/port"
)

const reminderBatchSize = 200

// ReminderSweeper 为次日的预约发送提醒
type ReminderSweeper struct {
	repo     domain.Repository
	notifier port.PickupNotifier
	tx       port.TxManager
	tracer   trace.Tracer
	now      func() time.Time
}

func NewReminderSweeper(repo domain.Repository, notifier port.PickupNotifier, tx port.TxManager, tracer trace.Tracer) *ReminderSweeper {
	return &ReminderSweeper{repo: repo, notifier: notifier, tx: tx, tracer: tracer, now: time.Now}
}

// Sweep 处理一轮提醒，返回本轮发出的数量。
// 每条预约在一个事务内先以 reminder_sent_at IS NULL 为条件标记再发布事件，
// 发布失败时标记回滚，下一轮重试。
func (s *ReminderSweeper) Sweep(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "app.SweepPickupReminders")
	defer span.End()

	now := s.now().UTC()
	tomorrow := domain.Today(now).AddDate(0, 0, 1)
	due, err := s.repo.DueForReminder(ctx, tomorrow, reminderBatchSize)
	if err != nil {
		return 0, fail(span, err, "load due pickups")
	}

	sent := 0
	for i := range due {
		p := &due[i]
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.repo.MarkReminded(ctx, p.ID, now); err != nil {
				return err
			}
			return s.notifier.PickupReminder(ctx, p)
		})
		switch {
		case err == nil:
			sent++
			metrics.RemindersSent.Inc()
		case errors.Is(err, domain.ErrReminderAlreadySet):
			// 其他实例已经处理
		default:
			logger.Ctx(ctx).Warn().Err(err).Int64("pickup_id", p.ID).Msg("pickup reminder failed")
		}
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
	}
	span.SetAttributes(attribute.Int("reminders.due", len(due)), attribute.Int("reminders.sent", sent))
	return sent, nil
}
