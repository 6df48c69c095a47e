// internal/service/listing/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"zirako/internal/pkg/httpx"
	"zirako/internal/service/listing/application"
	"zirako/internal/service/listing/domain"
)

// ListingHandler 封装了物品、分类与收藏相关的 HTTP 处理器
type ListingHandler struct {
	service *application.ListingService
}

func NewListingHandler(service *application.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ListingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/listings", h.handleSearch)
	mux.HandleFunc("POST /api/listings", h.handleCreate)
	mux.HandleFunc("GET /api/listings/mine", h.handleMine)
	mux.HandleFunc("GET /api/listings/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/listings/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/listings/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/listings/{id}/complete", h.handleComplete)
	mux.HandleFunc("GET /api/categories", h.handleCategories)
	mux.HandleFunc("GET /api/favorites", h.handleFavorites)
	mux.HandleFunc("POST /api/favorites", h.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", h.handleRemoveFavorite)
}

func (h *ListingHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.SearchFilter{
		Category: q.Get("category"),
		City:     q.Get("city"),
		Text:     q.Get("q"),
		Limit:    httpx.QueryInt(r, "limit", 0),
		Offset:   httpx.QueryInt(r, "offset", 0),
	}
	if v := q.Get("status"); v != "" {
		st, err := domain.ParseStatus(v)
		if err != nil {
			httpx.WriteError(r.Context(), w, err)
			return
		}
		f.Status = st
	}
	if v := q.Get("kind"); v != "" {
		k, err := domain.ParseKind(v)
		if err != nil {
			httpx.WriteError(r.Context(), w, err)
			return
		}
		f.Kind = k
	}
	views, err := h.service.Search(r.Context(), f)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingViewResponses(views))
}

func (h *ListingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.CreateListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	l, err := h.service.Create(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToListingResponse(l), "Artículo publicado exitosamente")
}

func (h *ListingHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	listings, err := h.service.Mine(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingResponses(listings))
}

func (h *ListingHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingViewResponse(v))
}

func (h *ListingHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	var req application.UpdateListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	l, err := h.service.Update(r.Context(), accountID, id, req.Patch())
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingResponse(l))
}

func (h *ListingHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Message(w, "Artículo eliminado")
}

func (h *ListingHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	l, err := h.service.Complete(r.Context(), accountID, id)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingResponse(l))
}

func (h *ListingHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, cats)
}

func (h *ListingHandler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	views, err := h.service.Favorites(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, application.ToListingViewResponses(views))
}

func (h *ListingHandler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.FavoriteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	if err := h.service.AddFavorite(r.Context(), accountID, req.ListingID); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, nil, "Agregado a favoritos")
}

func (h *ListingHandler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), accountID, id); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Message(w, "Eliminado de favoritos")
}
