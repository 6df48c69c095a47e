// internal/service/messaging/interfaces/http_handler.go
package interfaces

import (
	"net/http"
	"strconv"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/httpx"
	"zirako/internal/service/messaging/application"
)

// MessagingHandler 封装了私信相关的 HTTP 处理器
type MessagingHandler struct {
	service *application.MessagingService
}

func NewMessagingHandler(service *application.MessagingService) *MessagingHandler {
	return &MessagingHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *MessagingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/messages", h.handleConversations)
	mux.HandleFunc("GET /api/messages/{accountId}", h.handleConversation)
	mux.HandleFunc("POST /api/messages", h.handleSend)
	mux.HandleFunc("POST /api/contact", h.handleContactOwner)
}

// handleConversations 返回会话列表；带 ?with=<id> 时返回与该账户的会话
func (h *MessagingHandler) handleConversations(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	if with := r.URL.Query().Get("with"); with != "" {
		otherID, err := strconv.ParseInt(with, 10, 64)
		if err != nil || otherID <= 0 {
			httpx.WriteError(r.Context(), w, apperr.Validation("invalid with"))
			return
		}
		h.writeConversation(w, r, accountID, otherID)
		return
	}
	cs, err := h.service.Conversations(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToConversationResponses(cs))
}

func (h *MessagingHandler) handleConversation(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	otherID, err := httpx.PathID(r, "accountId")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	h.writeConversation(w, r, accountID, otherID)
}

func (h *MessagingHandler) writeConversation(w http.ResponseWriter, r *http.Request, accountID, otherID int64) {
	views, err := h.service.Conversation(r.Context(), accountID, otherID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToMessageViewResponses(views))
}

func (h *MessagingHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.SendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	m, err := h.service.Send(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToMessageResponse(m), "Mensaje enviado")
}

func (h *MessagingHandler) handleContactOwner(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.ContactOwnerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	m, err := h.service.ContactOwner(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToMessageResponse(m), "Mensaje enviado al vendedor exitosamente")
}
