// internal/service/support/application/dto.go
package application

import (
	"strings"
	"time"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/support/domain"
)

const maxChatMessageLength = 2000

// CreateTicketRequest 是创建工单的请求体，priority 可选
type CreateTicketRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

func (r *CreateTicketRequest) Validate() error {
	return r.draft().Validate()
}

func (r *CreateTicketRequest) draft() domain.Draft {
	return domain.Draft{
		Contact:  domain.Contact{Name: r.Name, Email: r.Email},
		Subject:  r.Subject,
		Message:  r.Message,
		Category: r.Category,
	}
}

// ChatRequest 是在线咨询的请求体
type ChatRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return domain.ErrMissingFields
	}
	if len([]rune(r.Message)) > maxChatMessageLength {
		return apperr.Validation("message is too long")
	}
	return r.contact().Validate()
}

func (r *ChatRequest) contact() domain.Contact {
	return domain.Contact{Name: strings.TrimSpace(r.Name), Email: strings.TrimSpace(r.Email)}
}

// TicketResponse 是工单的对外表示
type TicketResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Subject:   t.Subject,
		Message:   t.Message,
		Category:  t.Category,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

func ToTicketResponses(ts []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(ts))
	for i := range ts {
		out = append(out, ToTicketResponse(&ts[i]))
	}
	return out
}
