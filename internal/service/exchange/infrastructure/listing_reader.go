// internal/service/exchange/infrastructure/listing_reader.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/exchange/domain"
)

// GormListingReader 直接读取 listings 表中交换需要的三列
type GormListingReader struct {
	db *gorm.DB
}

func NewGormListingReader(db *gorm.DB) *GormListingReader {
	return &GormListingReader{db: db}
}

func (r *GormListingReader) FindListing(ctx context.Context, id int64) (*domain.Listing, error) {
	var row domain.Listing
	err := database.Conn(ctx, r.db).Table("listings").
		Select("id, owner_id, title").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find listing %d", id)
	}
	return &row, nil
}
