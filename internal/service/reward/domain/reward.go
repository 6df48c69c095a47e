// internal/service/reward/domain/reward.go
package domain

import (
	"github.com/shopspring/decimal"

	"zirako/internal/pkg/apperr"
)

// ActionKind 是可获得奖励的环保行为类型，取值集合是封闭的
type ActionKind string

const (
	ActionDonation ActionKind = "donation"
	ActionExchange ActionKind = "exchange"
	ActionSale     ActionKind = "sale"
	ActionPickup   ActionKind = "pickup"
)

// Reward 是一次行为对应的碳减排量与积分
type Reward struct {
	Co2Kg  decimal.Decimal
	Points int64
}

var rewardTable = map[ActionKind]Reward{
	ActionDonation: {Co2Kg: decimal.RequireFromString("3.0"), Points: 50},
	ActionExchange: {Co2Kg: decimal.RequireFromString("2.0"), Points: 30},
	ActionSale:     {Co2Kg: decimal.RequireFromString("1.0"), Points: 10},
	ActionPickup:   {Co2Kg: decimal.RequireFromString("0.5"), Points: 20},
}

// ErrUnknownAction 表示行为类型不在奖励表中
var ErrUnknownAction = apperr.New(apperr.ErrValidation, "unknown action kind")

// ActionKinds 返回全部行为类型，顺序固定
func ActionKinds() []ActionKind {
	return []ActionKind{ActionDonation, ActionExchange, ActionSale, ActionPickup}
}

// ParseActionKind 校验外部输入的行为类型
func ParseActionKind(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if _, ok := rewardTable[kind]; !ok {
		return "", ErrUnknownAction
	}
	return kind, nil
}

// RewardFor 查表返回行为的奖励；未知类型直接报错，不回退到默认值
func RewardFor(kind ActionKind) (Reward, error) {
	r, ok := rewardTable[kind]
	if !ok {
		return Reward{}, ErrUnknownAction
	}
	return r, nil
}
