// internal/service/messaging/infrastructure/readers.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/messaging/domain"
)

// GormAccountReader 读取 accounts 表中的参与者信息
type GormAccountReader struct {
	db *gorm.DB
}

func NewGormAccountReader(db *gorm.DB) *GormAccountReader {
	return &GormAccountReader{db: db}
}

func (r *GormAccountReader) FindParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	var p domain.Participant
	err := database.Conn(ctx, r.db).Table("accounts").
		Select("id, name, email").
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find account %d", id)
	}
	return &p, nil
}

// GormListingReader 读取 listings 表中联系发布者需要的字段
type GormListingReader struct {
	db *gorm.DB
}

func NewGormListingReader(db *gorm.DB) *GormListingReader {
	return &GormListingReader{db: db}
}

func (r *GormListingReader) FindListing(ctx context.Context, id int64) (*domain.ListingRef, error) {
	var row struct {
		ID      int64
		OwnerID int64
		Title   string
		Price   decimal.Decimal
	}
	err := database.Conn(ctx, r.db).Table("listings").
		Select("id, owner_id, title, price").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find listing %d", id)
	}
	return &domain.ListingRef{ID: row.ID, OwnerID: row.OwnerID, Title: row.Title, Price: FormatPrice(row.Price)}, nil
}

// FormatPrice 把价格转成邮件模板使用的文本，免费物品返回空串
func FormatPrice(p decimal.Decimal) string {
	if !p.IsPositive() {
		return ""
	}
	if p.IsInteger() {
		return p.StringFixed(0)
	}
	return p.StringFixed(2)
}
