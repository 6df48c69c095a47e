// internal/service/pickup/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"zirako/internal/pkg/httpx"
	"zirako/internal/service/pickup/application"
)

// PickupHandler 封装了上门回收相关的 HTTP 处理器
type PickupHandler struct {
	service *application.PickupService
}

func NewPickupHandler(service *application.PickupService) *PickupHandler {
	return &PickupHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *PickupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pickups", h.handleList)
	mux.HandleFunc("POST /api/pickups", h.handleSchedule)
	mux.HandleFunc("POST /api/pickups/{id}/cancel", h.handleCancel)
}

func (h *PickupHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	ps, err := h.service.List(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToPickupResponses(ps))
}

func (h *PickupHandler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.ScheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	res, err := h.service.Schedule(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, res, "Recolección programada exitosamente")
}

func (h *PickupHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	p, err := h.service.Cancel(r.Context(), accountID, id)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: application.ToPickupResponse(p), Message: "Recolección cancelada"})
}
