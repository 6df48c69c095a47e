// internal/service/messaging/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"zirako/internal/service/messaging/domain"
)

// MessageModel 对应数据库中的 messages 表
type MessageModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	SenderID    int64  `gorm:"not null;index"`
	RecipientID int64  `gorm:"not null;index:idx_message_inbox,priority:1"`
	ListingID   *int64 `gorm:"index"`
	Content     string `gorm:"type:text;not null"`
	IsRead      bool   `gorm:"not null;default:false;index:idx_message_inbox,priority:2"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (MessageModel) TableName() string {
	return "messages"
}

func toMessageModel(m *domain.Message) *MessageModel {
	return &MessageModel{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
		Content:     m.Content,
		IsRead:      m.Read,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainMessage(m *MessageModel) domain.Message {
	return domain.Message{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
		Content:     m.Content,
		Read:        m.IsRead,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}
