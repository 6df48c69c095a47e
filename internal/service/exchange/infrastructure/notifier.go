// internal/service/exchange/infrastructure/notifier.go
package infrastructure

import (
	"context"
	"strconv"

	"zirako/internal/service/exchange/domain"
	notification "zirako/internal/service/notification/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// EventNotifier 把交换事件转换为通知事件
type EventNotifier struct {
	publisher notification.Publisher
}

func NewEventNotifier(publisher notification.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) ExchangeProposed(ctx context.Context, p *domain.Proposal, offered, requested *domain.Listing) error {
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventExchangeProposed, p.ReceiverID, map[string]string{
		"proposal_id":     strconv.FormatInt(p.ID, 10),
		"actor_id":        strconv.FormatInt(p.ProposerID, 10),
		"offered_title":   offered.Title,
		"requested_title": requested.Title,
		"message":         p.Message,
	}))
}

func (n *EventNotifier) ExchangeDecided(ctx context.Context, p *domain.Proposal) error {
	data := map[string]string{
		"proposal_id": strconv.FormatInt(p.ID, 10),
		"decision":    string(p.Status),
	}
	if p.Status == domain.StatusAccepted {
		if r, err := rewarddomain.RewardFor(rewarddomain.ActionExchange); err == nil {
			data["points"] = strconv.FormatInt(r.Points, 10)
		}
	}
	return n.publisher.Publish(ctx, notification.NewEvent(notification.EventExchangeDecided, p.ProposerID, data))
}
