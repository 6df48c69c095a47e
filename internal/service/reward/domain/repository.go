// internal/service/reward/domain/repository.go
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/pkg/apperr"
)

var ErrAccountNotFound = apperr.New(apperr.ErrNotFound, "account not found")

// Standing 是账户当前的积分与已保存等级
type Standing struct {
	AccountID int64
	Points    int64
	Tier      Tier
}

// Repository 定义了积分账本与行为记录的持久化接口。
// 所有写操作都应在调用方开启的事务中执行。
type Repository interface {
	// GetPoints 读取账户当前积分
	GetPoints(ctx context.Context, accountID int64) (int64, error)

	// AddPoints 以相对增量更新积分（points = points + delta），返回更新后的值
	AddPoints(ctx context.Context, accountID, delta int64) (int64, error)

	// SetTier 持久化重新计算后的等级
	SetTier(ctx context.Context, accountID int64, tier Tier) error

	// InsertImpactAction 追加一条行为记录
	InsertImpactAction(ctx context.Context, action *ImpactAction) error

	Totals(ctx context.Context, accountID int64) (co2 decimal.Decimal, count int64, err error)
	BreakdownByKind(ctx context.Context, accountID int64) ([]KindTotal, error)
	Monthly(ctx context.Context, accountID int64, since time.Time) ([]MonthTotal, error)
	Recent(ctx context.Context, accountID int64, limit int) ([]ImpactAction, error)

	// ScanStanding 按账户 ID 升序分页读取 afterID 之后的账户
	ScanStanding(ctx context.Context, afterID int64, limit int) ([]Standing, error)
}
