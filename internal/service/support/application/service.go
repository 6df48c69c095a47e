// internal/service/support/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/service/support/domain"
	"zirako/internal/service/support/port"
)

// SupportService 负责工单与在线咨询
type SupportService struct {
	repo     domain.Repository
	triager  domain.Triager
	notifier port.SupportNotifier
	tracer   trace.Tracer
	now      func() time.Time
}

func NewSupportService(repo domain.Repository, triager domain.Triager, notifier port.SupportNotifier, tracer trace.Tracer) *SupportService {
	return &SupportService{repo: repo, triager: triager, notifier: notifier, tracer: tracer, now: time.Now}
}

// CreateTicket 创建工单。accountID 为 0 表示匿名提交。
// 请求中的合法优先级优先，否则取第一条命中的分诊规则，都没有时为 medium。
func (s *SupportService) CreateTicket(ctx context.Context, accountID int64, req *CreateTicketRequest) (*domain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateTicket", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	draft := req.draft()
	if err := draft.Validate(); err != nil {
		return nil, fail(span, err, "invalid ticket")
	}

	priority, source := s.prioritize(req.Priority, draft.Facts(accountID != 0))
	t := domain.NewTicket(accountID, draft, priority, s.now().UTC())
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, fail(span, err, "insert ticket")
	}
	span.SetAttributes(
		attribute.Int64("ticket.id", t.ID),
		attribute.String("ticket.priority", string(priority)),
		attribute.String("ticket.priority_source", source),
	)
	logger.Ctx(ctx).Info().
		Int64("ticket_id", t.ID).
		Str("priority", string(priority)).
		Str("priority_source", source).
		Msg("support ticket created")

	if err := s.notifier.TicketCreated(ctx, t); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("ticket_id", t.ID).Msg("support inbox notification failed")
	}
	if err := s.notifier.TicketReceived(ctx, t); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("ticket_id", t.ID).Msg("ticket confirmation notification failed")
	}
	return t, nil
}

func (s *SupportService) prioritize(requested string, facts domain.Facts) (domain.Priority, string) {
	if p, ok := domain.ParsePriority(requested); ok {
		return p, "request"
	}
	if s.triager != nil {
		if p, rule, ok := s.triager.Triage(facts); ok {
			return p, "rule:" + rule
		}
	}
	return domain.PriorityMedium, "default"
}

// ListTickets 返回账户自己的工单
func (s *SupportService) ListTickets(ctx context.Context, accountID int64, status *domain.Status) ([]domain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListTickets", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	ts, err := s.repo.ListByAccount(ctx, accountID, status)
	if err != nil {
		return nil, fail(span, err, "list tickets")
	}
	return ts, nil
}

// Chat 把在线咨询转发到支持信箱，转发失败时返回错误
func (s *SupportService) Chat(ctx context.Context, req *ChatRequest) error {
	ctx, span := s.tracer.Start(ctx, "app.SupportChat")
	defer span.End()

	if err := req.Validate(); err != nil {
		return fail(span, err, "invalid chat message")
	}
	if err := s.notifier.SupportChat(ctx, req.contact(), req.Message); err != nil {
		return fail(span, err, "forward chat")
	}
	return nil
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
