// internal/service/account/port/ports.go
package port

import (
	"context"

	"zirako/internal/service/account/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// AccountNotifier 发送账户相关通知
type AccountNotifier interface {
	Welcome(ctx context.Context, a *domain.Account) error
	VerifyEmail(ctx context.Context, a *domain.Account) error
	PasswordReset(ctx context.Context, a *domain.Account, tempPassword string) error
}

// ImpactSummarizer 返回账户的环保影响汇总
type ImpactSummarizer interface {
	Summary(ctx context.Context, accountID int64) (*rewarddomain.Summary, error)
}

// TokenIssuer 为登录成功的账户签发令牌
type TokenIssuer interface {
	Issue(accountID int64, email, name string) (string, error)
}

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
