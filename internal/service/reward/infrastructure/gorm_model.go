// internal/service/reward/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/service/reward/domain"
)

// ImpactActionModel 对应数据库中的 impact_actions 表
type ImpactActionModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	AccountID int64           `gorm:"not null;index:idx_impact_account_created,priority:1"`
	Kind      string          `gorm:"type:varchar(16);not null"`
	Co2Kg     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Points    int64           `gorm:"not null"`
	ListingID *int64          `gorm:"index"`
	Note      string          `gorm:"type:varchar(255)"`
	CreatedAt time.Time       `gorm:"not null;index:idx_impact_account_created,priority:2"`
}

// TableName 指定 GORM 应该使用的表名
func (ImpactActionModel) TableName() string {
	return "impact_actions"
}

func toImpactActionModel(a *domain.ImpactAction) *ImpactActionModel {
	return &ImpactActionModel{
		AccountID: a.AccountID,
		Kind:      string(a.Kind),
		Co2Kg:     a.Co2Kg,
		Points:    a.Points,
		ListingID: a.ListingID,
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
	}
}

func toDomainImpactAction(m *ImpactActionModel) domain.ImpactAction {
	return domain.ImpactAction{
		ID:        m.ID,
		AccountID: m.AccountID,
		Kind:      domain.ActionKind(m.Kind),
		Co2Kg:     m.Co2Kg,
		Points:    m.Points,
		ListingID: m.ListingID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}
