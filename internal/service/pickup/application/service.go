// internal/service/pickup/application/service.go
package application

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/service/pickup/domain"
	"zirako/internal/service/pickup/port"
	rewarddomain "zirako/internal/service/reward/domain"
)

// PickupService 负责上门回收的预约、查询与取消
type PickupService struct {
	repo     domain.Repository
	rewards  port.RewardGranter
	notifier port.PickupNotifier
	tx       port.TxManager
	tracer   trace.Tracer
	now      func() time.Time
}

func NewPickupService(repo domain.Repository, rewards port.RewardGranter, notifier port.PickupNotifier, tx port.TxManager, tracer trace.Tracer) *PickupService {
	return &PickupService{
		repo: repo, rewards: rewards, notifier: notifier,
		tx: tx, tracer: tracer, now: time.Now,
	}
}

// Schedule 创建预约并在同一事务中发放回收奖励，确认邮件尽力发送
func (s *PickupService) Schedule(ctx context.Context, accountID int64, req *ScheduleRequest) (*ScheduleResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.SchedulePickup", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	p, err := domain.NewPickup(accountID, req.request(), s.now().UTC())
	if err != nil {
		return nil, fail(span, err, "invalid pickup")
	}

	var grant *rewarddomain.Grant
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, p); err != nil {
			return err
		}
		grant, err = s.rewards.Grant(ctx, accountID, rewarddomain.ActionPickup, rewarddomain.Ref{Note: "pickup #" + strconv.FormatInt(p.ID, 10)})
		return err
	})
	if err != nil {
		return nil, fail(span, err, "schedule pickup")
	}
	span.SetAttributes(attribute.Int64("pickup.id", p.ID))
	logger.Ctx(ctx).Info().
		Int64("pickup_id", p.ID).
		Int64("account_id", accountID).
		Str("date", p.DateString()).
		Msg("pickup scheduled")

	points := grant.Action.Points
	if err := s.notifier.PickupScheduled(ctx, p, points); err != nil {
		span.AddEvent("notification failed")
		logger.Ctx(ctx).Warn().Err(err).Int64("pickup_id", p.ID).Msg("pickup confirmation notification failed")
	}
	return &ScheduleResult{PickupResponse: ToPickupResponse(p), PointsEarned: points}, nil
}

// List 返回账户的全部预约，最新的在前
func (s *PickupService) List(ctx context.Context, accountID int64) ([]domain.Pickup, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListPickups", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	ps, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fail(span, err, "list pickups")
	}
	return ps, nil
}

// Cancel 由预约人取消 pending 或 confirmed 的预约。已发放的积分不收回。
func (s *PickupService) Cancel(ctx context.Context, accountID, pickupID int64) (*domain.Pickup, error) {
	ctx, span := s.tracer.Start(ctx, "app.CancelPickup", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int64("pickup.id", pickupID),
	))
	defer span.End()

	p, err := s.repo.Get(ctx, pickupID)
	if err != nil {
		return nil, fail(span, err, "load pickup")
	}
	now := s.now().UTC()
	if err := p.Cancel(accountID, now); err != nil {
		return nil, fail(span, err, "cancel rejected")
	}
	if err := s.repo.Cancel(ctx, p.ID, now); err != nil {
		return nil, fail(span, err, "cancel pickup")
	}
	logger.Ctx(ctx).Info().Int64("pickup_id", p.ID).Msg("pickup cancelled")
	return p, nil
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
