// internal/service/reward/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/httpx"
	"zirako/internal/service/reward/application"
	"zirako/internal/service/reward/domain"
)

// ImpactHandler 封装了环保影响相关的 HTTP 处理器
type ImpactHandler struct {
	service *application.RewardService
}

func NewImpactHandler(service *application.RewardService) *ImpactHandler {
	return &ImpactHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ImpactHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/impact", h.handleSummary)
	mux.HandleFunc("POST /api/impact", h.handleRecord)
}

func (h *ImpactHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	sum, err := h.service.Summary(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, sum)
}

type recordRequest struct {
	ActionKind string `json:"action_kind"`
	ListingID  *int64 `json:"listing_id,omitempty"`
	Note       string `json:"note,omitempty"`

	kind domain.ActionKind
}

func (req *recordRequest) Validate() error {
	kind, err := domain.ParseActionKind(req.ActionKind)
	if err != nil {
		return err
	}
	if req.ListingID != nil && *req.ListingID <= 0 {
		return apperr.Validation("listing_id must be positive")
	}
	if len(req.Note) > 255 {
		return apperr.Validation("note is too long")
	}
	req.kind = kind
	return nil
}

func (h *ImpactHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	grant, err := h.service.Grant(r.Context(), accountID, req.kind, domain.Ref{ListingID: req.ListingID, Note: req.Note})
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, map[string]any{
		"action":       grant.Action,
		"total_points": grant.TotalPoints,
		"tier":         grant.Tier,
		"tier_name":    grant.Tier.Name(),
	}, "Acción registrada")
}
