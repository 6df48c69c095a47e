// internal/service/support/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/httpx"
	"zirako/internal/service/support/application"
	"zirako/internal/service/support/domain"
)

// SupportHandler 封装了支持工单与在线咨询的 HTTP 处理器
type SupportHandler struct {
	service *application.SupportService
}

func NewSupportHandler(service *application.SupportService) *SupportHandler {
	return &SupportHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *SupportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/support/tickets", h.handleList)
	mux.HandleFunc("POST /api/support/tickets", h.handleCreate)
	mux.HandleFunc("POST /api/support/chat", h.handleChat)
}

func (h *SupportHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	status, err := domain.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	ts, err := h.service.ListTickets(r.Context(), accountID, status)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToTicketResponses(ts))
}

// handleCreate 允许匿名提交，登录用户的工单关联到账户
func (h *SupportHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req application.CreateTicketRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	t, err := h.service.CreateTicket(r.Context(), auth.AccountID(r.Context()), &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToTicketResponse(t), "Ticket creado exitosamente")
}

func (h *SupportHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req application.ChatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	if err := h.service.Chat(r.Context(), &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Message(w, "Mensaje enviado exitosamente")
}
