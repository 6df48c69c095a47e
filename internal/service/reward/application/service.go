// internal/service/reward/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/metrics"
	"zirako/internal/service/reward/domain"
)

const (
	recentActionsLimit = 10
	summaryMonths      = 6
	tierScanBatch      = 500
)

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RewardService 负责积分发放与环保影响汇总
type RewardService struct {
	repo   domain.Repository
	tx     TxManager
	tracer trace.Tracer
	now    func() time.Time
}

func NewRewardService(repo domain.Repository, tx TxManager, tracer trace.Tracer) *RewardService {
	return &RewardService{repo: repo, tx: tx, tracer: tracer, now: time.Now}
}

// Grant 为账户记录一次环保行为：追加行为记录、以相对增量累加积分、
// 根据增量后的积分重算并保存等级，三步在同一事务中完成。
// 调用方已开启事务时复用该事务。
func (s *RewardService) Grant(ctx context.Context, accountID int64, kind domain.ActionKind, ref domain.Ref) (*domain.Grant, error) {
	ctx, span := s.tracer.Start(ctx, "app.Grant", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.String("action.kind", string(kind)),
	))
	defer span.End()

	action, err := domain.NewImpactAction(accountID, kind, ref, s.now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid action kind")
		return nil, err
	}

	grant := &domain.Grant{}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertImpactAction(ctx, action); err != nil {
			return err
		}
		total, err := s.repo.AddPoints(ctx, accountID, action.Points)
		if err != nil {
			return err
		}
		tier := domain.TierFor(total)
		if err := s.repo.SetTier(ctx, accountID, tier); err != nil {
			return err
		}
		grant.Action = *action
		grant.TotalPoints = total
		grant.Tier = tier
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grant failed")
		return nil, err
	}

	metrics.RewardsGranted.WithLabelValues(string(kind)).Inc()
	metrics.PointsGranted.WithLabelValues(string(kind)).Add(float64(action.Points))
	metrics.Co2SavedKg.WithLabelValues(string(kind)).Add(action.Co2Kg.InexactFloat64())

	logger.Ctx(ctx).Info().
		Int64("account_id", accountID).
		Str("kind", string(kind)).
		Int64("points", action.Points).
		Int64("total_points", grant.TotalPoints).
		Int("tier", int(grant.Tier)).
		Msg("reward granted")
	return grant, nil
}

// Summary 汇总账户的环保影响：总量、按类型、近六个月、最近记录与等价换算
func (s *RewardService) Summary(ctx context.Context, accountID int64) (*domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "app.ImpactSummary", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	var sum domain.Summary
	since := monthsAgo(s.now().UTC(), summaryMonths-1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.Points, err = s.repo.GetPoints(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalCo2Kg, sum.ActionCount, err = s.repo.Totals(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		sum.ByKind, err = s.repo.BreakdownByKind(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		sum.Monthly, err = s.repo.Monthly(gctx, accountID, since)
		return err
	})
	g.Go(func() (err error) {
		sum.Recent, err = s.repo.Recent(gctx, accountID, recentActionsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summary query failed")
		return nil, err
	}

	sum.Tier = domain.TierFor(sum.Points)
	sum.TierName = sum.Tier.Name()
	sum.Equivalences = domain.EquivalencesFor(sum.TotalCo2Kg)
	return &sum, nil
}

// RecalculateTiers 扫描所有账户，修正与积分不一致的等级，返回修正数量
func (s *RewardService) RecalculateTiers(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "app.RecalculateTiers")
	defer span.End()

	fixed := 0
	var after int64
	for {
		batch, err := s.repo.ScanStanding(ctx, after, tierScanBatch)
		if err != nil {
			span.RecordError(err)
			return fixed, err
		}
		if len(batch) == 0 {
			break
		}
		for _, st := range batch {
			want := domain.TierFor(st.Points)
			if st.Tier != want {
				if err := s.repo.SetTier(ctx, st.AccountID, want); err != nil {
					span.RecordError(err)
					return fixed, err
				}
				fixed++
			}
			after = st.AccountID
		}
	}
	span.SetAttributes(attribute.Int("tiers.fixed", fixed))
	return fixed, nil
}

// monthsAgo 返回 n 个月前那个月的第一天
func monthsAgo(now time.Time, n int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -n, 0)
}
