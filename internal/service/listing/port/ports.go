// internal/service/listing/port/ports.go
package port

import (
	"context"

	rewarddomain "zirako/internal/service/reward/domain"
)

// RewardGranter 为账户发放行为奖励，调用方开启的事务会被复用
type RewardGranter interface {
	Grant(ctx context.Context, accountID int64, kind rewarddomain.ActionKind, ref rewarddomain.Ref) (*rewarddomain.Grant, error)
}

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
