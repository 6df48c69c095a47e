// internal/service/account/domain/repository.go
package domain

import (
	"context"
	"time"
)

// Repository 定义了账户的持久化接口。
type Repository interface {
	// Insert 保存新账户并回填 ID，邮箱重复时返回 ErrEmailTaken
	Insert(ctx context.Context, a *Account) error
	Get(ctx context.Context, id int64) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	MarkLogin(ctx context.Context, id int64, at time.Time) error

	// VerifyEmail 按令牌标记邮箱已验证并清空令牌，令牌无效时返回 ErrInvalidVerifyToken
	VerifyEmail(ctx context.Context, token string, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error
	UpdateProfile(ctx context.Context, a *Account) error

	// Activity 统计账户发布的物品、参与的交换、预约的回收与收藏数量
	Activity(ctx context.Context, id int64) (Activity, error)
}
