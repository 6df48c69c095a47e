// internal/service/reward/domain/action.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImpactAction 是一条只追加的环保行为记录。
// ListingTitle 只在最近行为列表中填充。
type ImpactAction struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"account_id"`
	Kind         ActionKind      `json:"kind"`
	Co2Kg        decimal.Decimal `json:"co2_kg"`
	Points       int64           `json:"points"`
	ListingID    *int64          `json:"listing_id,omitempty"`
	ListingTitle string          `json:"listing_title,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Ref 描述触发奖励的业务对象
type Ref struct {
	ListingID *int64
	Note      string
}

// Grant 是一次奖励发放的结果
type Grant struct {
	Action      ImpactAction
	TotalPoints int64
	Tier        Tier
}

// NewImpactAction 按奖励表为账户生成一条行为记录
func NewImpactAction(accountID int64, kind ActionKind, ref Ref, now time.Time) (*ImpactAction, error) {
	reward, err := RewardFor(kind)
	if err != nil {
		return nil, err
	}
	return &ImpactAction{
		AccountID: accountID,
		Kind:      kind,
		Co2Kg:     reward.Co2Kg,
		Points:    reward.Points,
		ListingID: ref.ListingID,
		Note:      ref.Note,
		CreatedAt: now,
	}, nil
}

// KindTotal 是按行为类型聚合的统计
type KindTotal struct {
	Kind   ActionKind      `json:"kind"`
	Count  int64           `json:"count"`
	Co2Kg  decimal.Decimal `json:"co2_kg"`
	Points int64           `json:"points"`
}

// MonthTotal 是按月聚合的统计，Month 形如 2025-03，最近的月份在前
type MonthTotal struct {
	Month  string          `json:"month"`
	Count  int64           `json:"count"`
	Co2Kg  decimal.Decimal `json:"co2_kg"`
	Points int64           `json:"points"`
}

// Summary 是个人环保影响的汇总视图
type Summary struct {
	TotalCo2Kg   decimal.Decimal `json:"total_co2_kg"`
	ActionCount  int64           `json:"action_count"`
	Points       int64           `json:"points"`
	Tier         Tier            `json:"tier"`
	TierName     string          `json:"tier_name"`
	ByKind       []KindTotal     `json:"by_kind"`
	Monthly      []MonthTotal    `json:"monthly"`
	Recent       []ImpactAction  `json:"recent"`
	Equivalences Equivalences    `json:"equivalences"`
}
