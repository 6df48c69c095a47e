// internal/service/exchange/application/service.go
package application

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/metrics"
	"zirako/internal/service/exchange/domain"
	"zirako/internal/service/exchange/port"
	rewarddomain "zirako/internal/service/reward/domain"
)

// ExchangeService 编排交换提议的发起、决定与查询
type ExchangeService struct {
	repo     domain.ProposalRepository
	listings port.ListingReader
	rewards  port.RewardGranter
	notifier port.ExchangeNotifier
	tx       port.TxManager
	tracer   trace.Tracer
	now      func() time.Time
}

func NewExchangeService(repo domain.ProposalRepository, listings port.ListingReader, rewards port.RewardGranter, notifier port.ExchangeNotifier, tx port.TxManager, tracer trace.Tracer) *ExchangeService {
	return &ExchangeService{
		repo: repo, listings: listings, rewards: rewards,
		notifier: notifier, tx: tx, tracer: tracer, now: time.Now,
	}
}

// Propose 发起交换：校验发起人拥有 offered 物品、requested 物品存在，
// 创建 pending 提议后尽力通知接收方。
func (s *ExchangeService) Propose(ctx context.Context, proposerID int64, req *ProposeRequest) (*domain.Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "app.ProposeExchange", trace.WithAttributes(
		attribute.Int64("account.id", proposerID),
		attribute.Int64("listing.offered", req.OfferedListingID),
		attribute.Int64("listing.requested", req.RequestedListingID),
	))
	defer span.End()

	offered, err := s.listings.FindListing(ctx, req.OfferedListingID)
	if err != nil {
		return nil, s.fail(span, err, "load offered listing")
	}
	requested, err := s.listings.FindListing(ctx, req.RequestedListingID)
	if err != nil {
		return nil, s.fail(span, err, "load requested listing")
	}

	proposal, err := domain.NewProposal(proposerID, offered, requested, req.Message, s.now().UTC())
	if err != nil {
		return nil, s.fail(span, err, "proposal rejected")
	}
	if err := s.repo.Insert(ctx, proposal); err != nil {
		return nil, s.fail(span, err, "insert proposal")
	}
	span.SetAttributes(attribute.Int64("proposal.id", proposal.ID))
	logger.Ctx(ctx).Info().
		Int64("proposal_id", proposal.ID).
		Int64("proposer_id", proposerID).
		Int64("receiver_id", proposal.ReceiverID).
		Msg("exchange proposed")

	if err := s.notifier.ExchangeProposed(ctx, proposal, offered, requested); err != nil {
		// 通知失败只记录一个警告，提议已经创建成功
		span.AddEvent("notification failed")
		logger.Ctx(ctx).Warn().Err(err).Int64("proposal_id", proposal.ID).Msg("exchange proposal notification failed")
	}
	return proposal, nil
}

// Decide 由接收方接受或拒绝提议。状态更新以 pending 为条件，
// 接受时为双方各发放一次交换奖励，全部在同一事务内完成。
func (s *ExchangeService) Decide(ctx context.Context, actorID, proposalID int64, decision domain.Status) (*domain.Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "app.DecideExchange", trace.WithAttributes(
		attribute.Int64("account.id", actorID),
		attribute.Int64("proposal.id", proposalID),
		attribute.String("decision", string(decision)),
	))
	defer span.End()

	var proposal *domain.Proposal
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.Get(ctx, proposalID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := p.Decide(actorID, decision, now); err != nil {
			return err
		}
		// 并发决定时只有一个事务能把 pending 改掉，失败方得到 ErrAlreadyDecided
		if err := s.repo.UpdateStatus(ctx, p.ID, domain.StatusPending, decision, now); err != nil {
			return err
		}
		if decision == domain.StatusAccepted {
			ref := rewarddomain.Ref{Note: "exchange #" + strconv.FormatInt(p.ID, 10)}
			for _, accountID := range []int64{p.ProposerID, p.ReceiverID} {
				if _, err := s.rewards.Grant(ctx, accountID, rewarddomain.ActionExchange, ref); err != nil {
					return err
				}
			}
		}
		proposal = p
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err, "decide failed")
	}

	metrics.ExchangeDecisions.WithLabelValues(string(decision)).Inc()
	logger.Ctx(ctx).Info().
		Int64("proposal_id", proposal.ID).
		Str("decision", string(decision)).
		Msg("exchange decided")

	if err := s.notifier.ExchangeDecided(ctx, proposal); err != nil {
		span.AddEvent("notification failed")
		logger.Ctx(ctx).Warn().Err(err).Int64("proposal_id", proposal.ID).Msg("exchange decision notification failed")
	}
	return proposal, nil
}

// List 返回账户参与的提议
func (s *ExchangeService) List(ctx context.Context, accountID int64, status *domain.Status) ([]domain.ProposalView, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListExchanges", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	views, err := s.repo.ListForAccount(ctx, accountID, status)
	if err != nil {
		return nil, s.fail(span, err, "list proposals")
	}
	return views, nil
}

func (s *ExchangeService) fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
