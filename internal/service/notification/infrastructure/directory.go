// internal/service/notification/infrastructure/directory.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/service/notification/application"
)

// GormDirectory 从 accounts 表查询收件人
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Lookup(ctx context.Context, accountID int64) (*application.Recipient, error) {
	var r application.Recipient
	err := d.db.WithContext(ctx).Table("accounts").Select("email, name").Where("id = ?", accountID).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, application.ErrRecipientNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup recipient %d", accountID)
	}
	return &r, nil
}
