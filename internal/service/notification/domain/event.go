// internal/service/notification/domain/event.go
package domain

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventType 决定通知使用的邮件模板
type EventType string

const (
	EventWelcome          EventType = "welcome"
	EventVerifyEmail      EventType = "verify_email"
	EventPasswordReset    EventType = "password_reset"
	EventExchangeProposed EventType = "exchange_proposed"
	EventExchangeDecided  EventType = "exchange_decided"
	EventPickupScheduled  EventType = "pickup_scheduled"
	EventPickupReminder   EventType = "pickup_reminder"
	EventTicketCreated    EventType = "ticket_created"
	EventTicketReceived   EventType = "ticket_received"
	EventSupportChat      EventType = "support_chat"
	EventContactOwner     EventType = "contact_owner"
)

// Event 是写入 notifications 主题的消息。
// RecipientEmail 为空时由消费端根据 RecipientID 查询账户邮箱。
type Event struct {
	ID             string            `json:"id"`
	Type           EventType         `json:"type"`
	RecipientID    int64             `json:"recipient_id,omitempty"`
	RecipientEmail string            `json:"recipient_email,omitempty"`
	ReplyTo        string            `json:"reply_to,omitempty"`
	Data           map[string]string `json:"data"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// NewEvent 创建一个带唯一 ID 的事件
func NewEvent(t EventType, recipientID int64, data map[string]string) *Event {
	if data == nil {
		data = map[string]string{}
	}
	return &Event{
		ID:          uuid.NewString(),
		Type:        t,
		RecipientID: recipientID,
		Data:        data,
		OccurredAt:  time.Now().UTC(),
	}
}

// ToAddress 把事件直接发往指定邮箱，用于支持信箱与未注册用户
func (e *Event) ToAddress(email string) *Event {
	e.RecipientEmail = email
	return e
}

// WithReplyTo 设置回复地址
func (e *Event) WithReplyTo(email string) *Event {
	e.ReplyTo = email
	return e
}

// PartitionKey 保证同一收件人的通知有序
func (e *Event) PartitionKey() string {
	if e.RecipientEmail != "" {
		return e.RecipientEmail
	}
	return "account-" + strconv.FormatInt(e.RecipientID, 10)
}

// Publisher 把事件写入消息队列
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}
