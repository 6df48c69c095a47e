// internal/service/exchange/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"zirako/internal/pkg/httpx"
	"zirako/internal/service/exchange/application"
	"zirako/internal/service/exchange/domain"
)

// ExchangeHandler 封装了交换提议相关的 HTTP 处理器
type ExchangeHandler struct {
	service *application.ExchangeService
}

func NewExchangeHandler(service *application.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ExchangeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/exchanges", h.handleList)
	mux.HandleFunc("POST /api/exchanges", h.handlePropose)
	mux.HandleFunc("PUT /api/exchanges/{id}", h.handleDecide)
}

func (h *ExchangeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	status, err := domain.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	views, err := h.service.List(r.Context(), accountID, status)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToProposalViewResponses(views))
}

func (h *ExchangeHandler) handlePropose(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.ProposeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	p, err := h.service.Propose(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToProposalResponse(p), "Propuesta de intercambio enviada")
}

func (h *ExchangeHandler) handleDecide(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	var req application.DecideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	p, err := h.service.Decide(r.Context(), accountID, id, req.Status)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	msg := "Intercambio rechazado"
	if p.Status == domain.StatusAccepted {
		msg = "Intercambio aceptado"
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: application.ToProposalResponse(p), Message: msg})
}
