// internal/service/messaging/application/dto.go
package application

import (
	"strings"
	"time"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/messaging/domain"
)

// SendRequest 是发送私信的请求体
type SendRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
	ListingID   *int64 `json:"listing_id,omitempty"`
}

func (r *SendRequest) Validate() error {
	if r.RecipientID <= 0 || strings.TrimSpace(r.Content) == "" {
		return apperr.Validation("Destinatario y contenido son requeridos")
	}
	return nil
}

// ContactOwnerRequest 是联系物品发布者的请求体
type ContactOwnerRequest struct {
	ListingID int64  `json:"listing_id"`
	Message   string `json:"message"`
}

func (r *ContactOwnerRequest) Validate() error {
	if r.ListingID <= 0 {
		return apperr.Validation("listing_id is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return domain.ErrEmptyContent
	}
	return nil
}

// MessageResponse 是私信的对外表示
type MessageResponse struct {
	ID            int64      `json:"id"`
	SenderID      int64      `json:"sender_id"`
	RecipientID   int64      `json:"recipient_id"`
	ListingID     *int64     `json:"listing_id,omitempty"`
	Content       string     `json:"content"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	SenderName    string     `json:"sender_name,omitempty"`
	RecipientName string     `json:"recipient_name,omitempty"`
}

func ToMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
		Content:     m.Content,
		Read:        m.Read,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func ToMessageViewResponses(views []domain.MessageView) []MessageResponse {
	out := make([]MessageResponse, 0, len(views))
	for i := range views {
		resp := ToMessageResponse(&views[i].Message)
		resp.SenderName = views[i].SenderName
		resp.RecipientName = views[i].RecipientName
		out = append(out, resp)
	}
	return out
}

// ConversationResponse 是会话列表中的一项
type ConversationResponse struct {
	CounterpartID   int64     `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	Unread          int64     `json:"unread"`
}

func ToConversationResponses(cs []domain.ConversationSummary) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ConversationResponse(c))
	}
	return out
}
