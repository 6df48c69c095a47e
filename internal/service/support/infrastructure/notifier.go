// internal/service/support/infrastructure/notifier.go
package infrastructure

import (
	"context"
	"strconv"

	notification "zirako/internal/service/notification/domain"
	"zirako/internal/service/support/domain"
)

// EventNotifier 把工单与咨询转换为通知事件，团队通知发往 inbox
type EventNotifier struct {
	publisher notification.Publisher
	inbox     string
}

func NewEventNotifier(publisher notification.Publisher, inbox string) *EventNotifier {
	return &EventNotifier{publisher: publisher, inbox: inbox}
}

func (n *EventNotifier) TicketCreated(ctx context.Context, t *domain.Ticket) error {
	data := ticketData(t)
	data["email"] = t.Email
	data["message"] = t.Message
	data["priority"] = string(t.Priority)
	data["category"] = t.Category
	e := notification.NewEvent(notification.EventTicketCreated, 0, data).ToAddress(n.inbox).WithReplyTo(t.Email)
	return n.publisher.Publish(ctx, e)
}

func (n *EventNotifier) TicketReceived(ctx context.Context, t *domain.Ticket) error {
	var recipient int64
	if t.AccountID != nil {
		recipient = *t.AccountID
	}
	e := notification.NewEvent(notification.EventTicketReceived, recipient, ticketData(t)).ToAddress(t.Email)
	return n.publisher.Publish(ctx, e)
}

func (n *EventNotifier) SupportChat(ctx context.Context, from domain.Contact, message string) error {
	e := notification.NewEvent(notification.EventSupportChat, 0, map[string]string{
		"name":    from.Name,
		"email":   from.Email,
		"message": message,
	}).ToAddress(n.inbox).WithReplyTo(from.Email)
	return n.publisher.Publish(ctx, e)
}

func ticketData(t *domain.Ticket) map[string]string {
	return map[string]string{
		"ticket_id": strconv.FormatInt(t.ID, 10),
		"name":      t.Name,
		"subject":   t.Subject,
	}
}
