// internal/service/messaging/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/logger"
	"zirako/internal/service/messaging/domain"
	"zirako/internal/service/messaging/port"
)

// MessagingService 负责账户之间的私信与联系物品发布者
type MessagingService struct {
	repo      domain.Repository
	accounts  port.AccountReader
	listings  port.ListingReader
	publisher port.ChatPublisher
	notifier  port.OwnerNotifier
	tx        port.TxManager
	tracer    trace.Tracer
	now       func() time.Time
}

func NewMessagingService(repo domain.Repository, accounts port.AccountReader, listings port.ListingReader, publisher port.ChatPublisher, notifier port.OwnerNotifier, tx port.TxManager, tracer trace.Tracer) *MessagingService {
	return &MessagingService{
		repo: repo, accounts: accounts, listings: listings, publisher: publisher,
		notifier: notifier, tx: tx, tracer: tracer, now: time.Now,
	}
}

// Send 保存私信并尽力推送给在线的收件人
func (s *MessagingService) Send(ctx context.Context, senderID int64, req *SendRequest) (*domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "app.SendMessage", trace.WithAttributes(
		attribute.Int64("account.id", senderID),
		attribute.Int64("recipient.id", req.RecipientID),
	))
	defer span.End()

	m, err := domain.NewMessage(senderID, req.RecipientID, req.Content, req.ListingID, s.now().UTC())
	if err != nil {
		return nil, fail(span, err, "invalid message")
	}
	recipient, err := s.accounts.FindParticipant(ctx, req.RecipientID)
	if err != nil {
		return nil, fail(span, err, "load recipient")
	}
	if recipient == nil {
		return nil, fail(span, domain.ErrRecipientNotFound, "recipient not found")
	}
	if req.ListingID != nil {
		l, err := s.listings.FindListing(ctx, *req.ListingID)
		if err != nil {
			return nil, fail(span, err, "load listing")
		}
		if l == nil {
			return nil, fail(span, domain.ErrListingNotFound, "listing not found")
		}
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, fail(span, err, "insert message")
	}
	span.SetAttributes(attribute.Int64("message.id", m.ID))

	s.push(ctx, m)
	return m, nil
}

func (s *MessagingService) push(ctx context.Context, m *domain.Message) {
	var senderName string
	if sender, err := s.accounts.FindParticipant(ctx, m.SenderID); err == nil && sender != nil {
		senderName = sender.Name
	}
	if err := s.publisher.PublishChat(ctx, domain.NewChatEvent(m, senderName)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("message_id", m.ID).Msg("chat push failed")
	}
}

// Conversation 返回与 otherID 的全部私信，并把对方发来的未读私信标记为已读
func (s *MessagingService) Conversation(ctx context.Context, accountID, otherID int64) ([]domain.MessageView, error) {
	ctx, span := s.tracer.Start(ctx, "app.Conversation", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int64("counterpart.id", otherID),
	))
	defer span.End()

	views, err := s.repo.Conversation(ctx, accountID, otherID)
	if err != nil {
		return nil, fail(span, err, "load conversation")
	}
	marked, err := s.repo.MarkRead(ctx, accountID, otherID, s.now().UTC())
	if err != nil {
		return nil, fail(span, err, "mark read")
	}
	span.SetAttributes(attribute.Int64("messages.marked_read", marked))
	return views, nil
}

// Conversations 返回账户的会话列表
func (s *MessagingService) Conversations(ctx context.Context, accountID int64) ([]domain.ConversationSummary, error) {
	ctx, span := s.tracer.Start(ctx, "app.Conversations", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	cs, err := s.repo.Conversations(ctx, accountID)
	if err != nil {
		return nil, fail(span, err, "list conversations")
	}
	return cs, nil
}

// ContactOwner 保存一条发给物品发布者的私信并以邮件通知对方（回复地址为发送者）。
// 邮件事件写入失败时私信不会保存。
func (s *MessagingService) ContactOwner(ctx context.Context, accountID int64, req *ContactOwnerRequest) (*domain.Message, error) {
	ctx, span := s.tracer.Start(ctx, "app.ContactOwner", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int64("listing.id", req.ListingID),
	))
	defer span.End()

	listing, err := s.listings.FindListing(ctx, req.ListingID)
	if err != nil {
		return nil, fail(span, err, "load listing")
	}
	if listing == nil {
		return nil, fail(span, domain.ErrListingNotFound, "listing not found")
	}
	if listing.OwnerID == accountID {
		return nil, fail(span, apperr.Validation("No puedes contactarte a ti mismo"), "own listing")
	}
	sender, err := s.accounts.FindParticipant(ctx, accountID)
	if err != nil {
		return nil, fail(span, err, "load sender")
	}
	if sender == nil {
		return nil, fail(span, apperr.Unauthorized("No autorizado"), "sender not found")
	}

	listingID := listing.ID
	m, err := domain.NewMessage(accountID, listing.OwnerID, req.Message, &listingID, s.now().UTC())
	if err != nil {
		return nil, fail(span, err, "invalid message")
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, m); err != nil {
			return err
		}
		return s.notifier.ContactOwner(ctx, sender, listing, m.Content)
	})
	if err != nil {
		return nil, fail(span, err, "contact owner")
	}
	logger.Ctx(ctx).Info().
		Int64("message_id", m.ID).
		Int64("listing_id", listing.ID).
		Int64("owner_id", listing.OwnerID).
		Msg("listing owner contacted")

	s.push(ctx, m)
	return m, nil
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
