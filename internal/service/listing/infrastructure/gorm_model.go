// internal/service/listing/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/service/listing/domain"
)

// ListingModel 对应数据库中的 listings 表
type ListingModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64           `gorm:"not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text;not null"`
	Category    string          `gorm:"type:varchar(32);not null;index:idx_listing_status_category,priority:2"`
	Kind        string          `gorm:"type:varchar(16);not null"`
	Condition   string          `gorm:"column:item_condition;type:varchar(16);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	City        string          `gorm:"type:varchar(64);not null"`
	Images      []string        `gorm:"type:json;serializer:json"`
	Status      string          `gorm:"type:varchar(16);not null;default:available;index:idx_listing_status_category,priority:1"`
	Views       int64           `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (ListingModel) TableName() string {
	return "listings"
}

// FavoriteModel 对应数据库中的 favorites 表，(account_id, listing_id) 唯一
type FavoriteModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AccountID int64     `gorm:"not null;uniqueIndex:uk_favorite,priority:1"`
	ListingID int64     `gorm:"not null;uniqueIndex:uk_favorite,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

func (FavoriteModel) TableName() string {
	return "favorites"
}

func toListingModel(l *domain.Listing) *ListingModel {
	return &ListingModel{
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

func toDomainListing(m *ListingModel) domain.Listing {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return domain.Listing{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Kind:        domain.Kind(m.Kind),
		Condition:   domain.Condition(m.Condition),
		Price:       m.Price,
		City:        m.City,
		Images:      images,
		Status:      domain.Status(m.Status),
		Views:       m.Views,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
