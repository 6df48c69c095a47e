// internal/service/messaging/domain/event.go
package domain

import (
	"strconv"
	"time"
)

// ChatEvent 是写入 chat-messages 主题的消息，由路由服务投递到收件人所在的推送网关
type ChatEvent struct {
	MessageID   int64     `json:"message_id"`
	SenderID    int64     `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	RecipientID int64     `json:"recipient_id"`
	ListingID   *int64    `json:"listing_id,omitempty"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}

func NewChatEvent(m *Message, senderName string) *ChatEvent {
	return &ChatEvent{
		MessageID:   m.ID,
		SenderID:    m.SenderID,
		SenderName:  senderName,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
		Content:     m.Content,
		SentAt:      m.CreatedAt,
	}
}

// PartitionKey 保证同一收件人的消息有序
func (e *ChatEvent) PartitionKey() string {
	return strconv.FormatInt(e.RecipientID, 10)
}
