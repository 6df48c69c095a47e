// internal/service/pickup/infrastructure/notifier.go
package infrastructure

import (
	"context"
	"strconv"

	notification "zirako/internal/service/notification/domain"
	"zirako/internal/service/pickup/domain"
)

// EventNotifier 把预约事件转换为通知事件
type EventNotifier struct {
	publisher notification.Publisher
}

func NewEventNotifier(publisher notification.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) PickupScheduled(ctx context.Context, p *domain.Pickup, points int64) error {
	data := pickupData(p)
	data["points"] = strconv.FormatInt(points, 10)
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventPickupScheduled, p.AccountID, data))
}

func (n *EventNotifier) PickupReminder(ctx context.Context, p *domain.Pickup) error {
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventPickupReminder, p.AccountID, pickupData(p)))
}

func pickupData(p *domain.Pickup) map[string]string {
	return map[string]string{
		"pickup_id": strconv.FormatInt(p.ID, 10),
		"address":   p.Address,
		"city":      p.City,
		"date":      p.DateString(),
		"slot":      p.Slot,
	}
}
