// internal/service/exchange/port/ports.go
package port

import (
	"context"

	"zirako/internal/service/exchange/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// ListingReader 读取参与交换的物品；物品不存在时返回 (nil, nil)
type ListingReader interface {
	FindListing(ctx context.Context, id int64) (*domain.Listing, error)
}

// RewardGranter 为账户发放行为奖励，调用方开启的事务会被复用
type RewardGranter interface {
	Grant(ctx context.Context, accountID int64, kind rewarddomain.ActionKind, ref rewarddomain.Ref) (*rewarddomain.Grant, error)
}

// ExchangeNotifier 通知交换双方；失败不影响业务结果
type ExchangeNotifier interface {
	ExchangeProposed(ctx context.Context, p *domain.Proposal, offered, requested *domain.Listing) error
	ExchangeDecided(ctx context.Context, p *domain.Proposal) error
}

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
