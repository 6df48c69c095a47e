// internal/service/account/infrastructure/notifier.go
package infrastructure

import (
	"context"

	"zirako/internal/service/account/domain"
	notification "zirako/internal/service/notification/domain"
)

// EventNotifier 把账户事件转换为通知事件
type EventNotifier struct {
	publisher notification.Publisher
}

func NewEventNotifier(publisher notification.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) Welcome(ctx context.Context, a *domain.Account) error {
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventWelcome, a.ID, map[string]string{
		"name": a.Name,
	}).ToAddress(a.Email))
}

func (n *EventNotifier) VerifyEmail(ctx context.Context, a *domain.Account) error {
	if a.VerifyToken == "" {
		return nil
	}
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventVerifyEmail, a.ID, map[string]string{
		"name":  a.Name,
		"token": a.VerifyToken,
	}).ToAddress(a.Email))
}

func (n *EventNotifier) PasswordReset(ctx context.Context, a *domain.Account, tempPassword string) error {
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventPasswordReset, a.ID, map[string]string{
		"name":          a.Name,
		"temp_password": tempPassword,
	}).ToAddress(a.Email))
}
