// internal/service/messaging/domain/message.go
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxContentLength = 2000

// Message 是两个账户之间的一条私信，可以关联一个物品
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	ListingID   *int64
	Content     string
	Read        bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// MessageView 附带双方名称
type MessageView struct {
	Message
	SenderName    string
	RecipientName string
}

// ConversationSummary 是与某个对方账户的会话概要
type ConversationSummary struct {
	CounterpartID   int64
	CounterpartName string
	LastMessage     string
	LastMessageAt   time.Time
	Unread          int64
}

// Participant 是参与私信的账户
type Participant struct {
	ID    int64
	Name  string
	Email string
}

// ListingRef 是私信关联的物品
type ListingRef struct {
	ID      int64
	OwnerID int64
	Title   string
	Price   string
}

// NewMessage 校验并创建一条未读私信
func NewMessage(senderID, recipientID int64, content string, listingID *int64, now time.Time) (*Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrContentTooLong
	}
	return &Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		ListingID:   listingID,
		Content:     content,
		CreatedAt:   now,
	}, nil
}
