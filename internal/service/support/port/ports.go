// internal/service/support/port/ports.go
package port

import (
	"context"

	"zirako/internal/service/support/domain"
)

// SupportNotifier 把工单与在线咨询转发到支持信箱
type SupportNotifier interface {
	// TicketCreated 通知支持团队
	TicketCreated(ctx context.Context, t *domain.Ticket) error
	// TicketReceived 向提交人确认已收到工单
	TicketReceived(ctx context.Context, t *domain.Ticket) error
	SupportChat(ctx context.Context, from domain.Contact, message string) error
}
