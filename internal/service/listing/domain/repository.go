// internal/service/listing/domain/repository.go
package domain

import (
	"context"
	"time"
)

// SearchFilter 是物品搜索条件，零值字段不参与过滤
type SearchFilter struct {
	Status   Status
	Category string
	Kind     Kind
	City     string
	Text     string
	Limit    int
	Offset   int
}

// CategoryCount 是分类下可用物品的数量
type CategoryCount struct {
	Category
	Available int64 `json:"available"`
}

// Repository 定义了物品与收藏的持久化接口。
type Repository interface {
	// Get 读取物品，不存在时返回 ErrListingNotFound
	Get(ctx context.Context, id int64) (*Listing, error)
	GetView(ctx context.Context, id int64) (*ListingView, error)
	Insert(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id int64) error

	// IncrementViews 以 views = views + 1 累加浏览量
	IncrementViews(ctx context.Context, id int64) error

	Search(ctx context.Context, f SearchFilter) ([]ListingView, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Listing, error)

	// MarkCompleted 仅当状态为 available 或 reserved 时改为 completed，
	// 条件不满足时返回 ErrAlreadyCompleted。
	MarkCompleted(ctx context.Context, id int64, at time.Time) error

	// AvailableByCategory 返回每个分类下 available 物品的数量
	AvailableByCategory(ctx context.Context) (map[string]int64, error)

	// AddFavorite 重复收藏返回 ErrAlreadyFavorite
	AddFavorite(ctx context.Context, accountID, listingID int64, at time.Time) error
	RemoveFavorite(ctx context.Context, accountID, listingID int64) error
	Favorites(ctx context.Context, accountID int64) ([]ListingView, error)
}
