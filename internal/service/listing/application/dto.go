// internal/service/listing/application/dto.go
package application

import (
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/listing/domain"
)

// CreateListingRequest 是发布物品的请求体
type CreateListingRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Kind        string          `json:"kind"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	City        string          `json:"city"`
	Images      []string        `json:"images,omitempty"`
}

func (r *CreateListingRequest) Validate() error {
	if r.Title == "" || r.Description == "" || r.Category == "" || r.Kind == "" || r.Condition == "" || r.City == "" {
		return apperr.Validation("Todos los campos son requeridos")
	}
	if _, err := domain.ParseKind(r.Kind); err != nil {
		return err
	}
	_, err := domain.ParseCondition(r.Condition)
	return err
}

func (r *CreateListingRequest) draft() domain.Draft {
	return domain.Draft{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Kind:        domain.Kind(r.Kind),
		Condition:   domain.Condition(r.Condition),
		Price:       r.Price,
		City:        r.City,
		Images:      r.Images,
	}
}

// UpdateListingRequest 是部分更新请求体，缺省字段保持不变
type UpdateListingRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Kind        *string          `json:"kind,omitempty"`
	Condition   *string          `json:"condition,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	City        *string          `json:"city,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Status      *string          `json:"status,omitempty"`

	patch domain.Patch
}

func (r *UpdateListingRequest) Validate() error {
	p := domain.Patch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		City:        r.City,
		Images:      r.Images,
	}
	if r.Kind != nil {
		k, err := domain.ParseKind(*r.Kind)
		if err != nil {
			return err
		}
		p.Kind = &k
	}
	if r.Condition != nil {
		c, err := domain.ParseCondition(*r.Condition)
		if err != nil {
			return err
		}
		p.Condition = &c
	}
	if r.Status != nil {
		st, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return err
		}
		p.Status = &st
	}
	r.patch = p
	return nil
}

// Patch 返回校验后的领域补丁
func (r *UpdateListingRequest) Patch() domain.Patch {
	return r.patch
}

// FavoriteRequest 是收藏物品的请求体
type FavoriteRequest struct {
	ListingID int64 `json:"listing_id"`
}

func (r *FavoriteRequest) Validate() error {
	if r.ListingID <= 0 {
		return apperr.Validation("listing_id is required")
	}
	return nil
}

// ListingResponse 是物品的对外表示
type ListingResponse struct {
	ID           int64           `json:"id"`
	OwnerID      int64           `json:"owner_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name,omitempty"`
	Kind         string          `json:"kind"`
	Condition    string          `json:"condition"`
	Price        decimal.Decimal `json:"price"`
	City         string          `json:"city"`
	Images       []string        `json:"images"`
	Status       string          `json:"status"`
	Views        int64           `json:"views"`
	OwnerName    string          `json:"owner_name,omitempty"`
	OwnerPhone   string          `json:"owner_phone,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Kind:        string(l.Kind),
		Condition:   string(l.Condition),
		Price:       l.Price,
		City:        l.City,
		Images:      l.Images,
		Status:      string(l.Status),
		Views:       l.Views,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func ToListingViewResponse(v *domain.ListingView) ListingResponse {
	resp := ToListingResponse(&v.Listing)
	resp.OwnerName = v.OwnerName
	resp.OwnerPhone = v.OwnerPhone
	resp.CategoryName = v.CategoryName
	return resp
}

func ToListingViewResponses(views []domain.ListingView) []ListingResponse {
	out := make([]ListingResponse, 0, len(views))
	for i := range views {
		out = append(out, ToListingViewResponse(&views[i]))
	}
	return out
}

func ToListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
