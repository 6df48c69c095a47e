// internal/service/pickup/port/ports.go
package port

import (
	"context"

	"zirako/internal/service/pickup/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// RewardGranter 为账户发放行为奖励，调用方开启的事务会被复用
type RewardGranter interface {
	Grant(ctx context.Context, accountID int64, kind rewarddomain.ActionKind, ref rewarddomain.Ref) (*rewarddomain.Grant, error)
}

// PickupNotifier 发送预约确认与提醒
type PickupNotifier interface {
	PickupScheduled(ctx context.Context, p *domain.Pickup, points int64) error
	PickupReminder(ctx context.Context, p *domain.Pickup) error
}

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
