// internal/service/messaging/infrastructure/publisher.go
package infrastructure

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"zirako/internal/pkg/metrics"
	"zirako/internal/pkg/mq"
	"zirako/internal/service/messaging/domain"
	notification "zirako/internal/service/notification/domain"
)

// KafkaChatPublisher 把新私信写入 chat-messages 主题
type KafkaChatPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaChatPublisher(writer mq.MessageWriter) *KafkaChatPublisher {
	return &KafkaChatPublisher{writer: writer}
}

func (p *KafkaChatPublisher) PublishChat(ctx context.Context, e *domain.ChatEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal chat event")
	}
	if err := mq.ProduceMessage(ctx, p.writer, []byte(e.PartitionKey()), body); err != nil {
		metrics.PushDeliveries.WithLabelValues("publish", "failed").Inc()
		return errors.Wrap(err, "publish chat event")
	}
	metrics.PushDeliveries.WithLabelValues("publish", "ok").Inc()
	return nil
}

// DiscardChatPublisher 在关闭实时推送时使用
type DiscardChatPublisher struct{}

func (DiscardChatPublisher) PublishChat(context.Context, *domain.ChatEvent) error { return nil }

// EventNotifier 以通知事件联系物品发布者
type EventNotifier struct {
	publisher notification.Publisher
}

func NewEventNotifier(publisher notification.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) ContactOwner(ctx context.Context, sender *domain.Participant, listing *domain.ListingRef, message string) error {
	e := notification.NewEvent(notification.EventContactOwner, listing.OwnerID, map[string]string{
		"actor_id":      strconv.FormatInt(sender.ID, 10),
		"sender_name":   sender.Name,
		"sender_email":  sender.Email,
		"listing_id":    strconv.FormatInt(listing.ID, 10),
		"listing_title": listing.Title,
		"price":         listing.Price,
		"message":       message,
	}).WithReplyTo(sender.Email)
	return n.publisher.Publish(ctx, e)
}
