// internal/service/reward/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/reward/domain"
)

const accountsTable = "accounts"

// GormRewardRepository 是 domain.Repository 的 GORM 实现。
// 积分列只通过 points = points + ? 更新，不做读-改-写。
type GormRewardRepository struct {
	db *gorm.DB
}

func NewGormRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

func (r *GormRewardRepository) GetPoints(ctx context.Context, accountID int64) (int64, error) {
	var row struct{ Points int64 }
	err := database.Conn(ctx, r.db).Table(accountsTable).Select("points").Where("id = ?", accountID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "get points of account %d", accountID)
	}
	return row.Points, nil
}

func (r *GormRewardRepository) AddPoints(ctx context.Context, accountID, delta int64) (int64, error) {
	conn := database.Conn(ctx, r.db)
	res := conn.Table(accountsTable).Where("id = ?", accountID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "add %d points to account %d", delta, accountID)
	}
	// 更新后行锁由当前事务持有，读到的就是本次增量之后的值
	total, err := r.GetPoints(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRewardRepository) SetTier(ctx context.Context, accountID int64, tier domain.Tier) error {
	res := database.Conn(ctx, r.db).Table(accountsTable).Where("id = ?", accountID).UpdateColumn("tier", int(tier))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "set tier of account %d", accountID)
	}
	return nil
}

func (r *GormRewardRepository) InsertImpactAction(ctx context.Context, action *domain.ImpactAction) error {
	model := toImpactActionModel(action)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrapf(err, "insert impact action for account %d", action.AccountID)
	}
	action.ID = model.ID
	return nil
}

func (r *GormRewardRepository) Totals(ctx context.Context, accountID int64) (decimal.Decimal, int64, error) {
	var row struct {
		Co2   decimal.Decimal
		Count int64
	}
	err := database.Conn(ctx, r.db).Model(&ImpactActionModel{}).
		Select("COALESCE(SUM(co2_kg), 0) AS co2, COUNT(*) AS count").
		Where("account_id = ?", accountID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, errors.Wrap(err, "impact totals")
	}
	return row.Co2, row.Count, nil
}

func (r *GormRewardRepository) BreakdownByKind(ctx context.Context, accountID int64) ([]domain.KindTotal, error) {
	var rows []struct {
		Kind   string
		Count  int64
		Co2    decimal.Decimal
		Points int64
	}
	err := database.Conn(ctx, r.db).Model(&ImpactActionModel{}).
		Select("kind, COUNT(*) AS count, SUM(co2_kg) AS co2, SUM(points) AS points").
		Where("account_id = ?", accountID).
		Group("kind").
		Order("co2 DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "impact breakdown")
	}
	out := make([]domain.KindTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.KindTotal{Kind: domain.ActionKind(row.Kind), Count: row.Count, Co2Kg: row.Co2, Points: row.Points})
	}
	return out, nil
}

func (r *GormRewardRepository) Monthly(ctx context.Context, accountID int64, since time.Time) ([]domain.MonthTotal, error) {
	var rows []struct {
		Month  string
		Count  int64
		Co2    decimal.Decimal
		Points int64
	}
	err := database.Conn(ctx, r.db).Model(&ImpactActionModel{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) AS count, SUM(co2_kg) AS co2, SUM(points) AS points").
		Where("account_id = ? AND created_at >= ?", accountID, since).
		Group("month").
		Order("month DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "impact monthly")
	}
	out := make([]domain.MonthTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MonthTotal{Month: row.Month, Count: row.Count, Co2Kg: row.Co2, Points: row.Points})
	}
	return out, nil
}

// Recent 返回最近的行为记录，并带上关联物品的标题
func (r *GormRewardRepository) Recent(ctx context.Context, accountID int64, limit int) ([]domain.ImpactAction, error) {
	var rows []struct {
		ImpactActionModel
		ListingTitle string
	}
	err := database.Conn(ctx, r.db).Table("impact_actions AS a").
		Select("a.*, l.title AS listing_title").
		Joins("LEFT JOIN listings l ON l.id = a.listing_id").
		Where("a.account_id = ?", accountID).
		Order("a.created_at DESC, a.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "recent impact actions")
	}
	out := make([]domain.ImpactAction, 0, len(rows))
	for i := range rows {
		a := toDomainImpactAction(&rows[i].ImpactActionModel)
		a.ListingTitle = rows[i].ListingTitle
		out = append(out, a)
	}
	return out, nil
}

func (r *GormRewardRepository) ScanStanding(ctx context.Context, afterID int64, limit int) ([]domain.Standing, error) {
	var rows []struct {
		ID     int64
		Points int64
		Tier   int
	}
	err := database.Conn(ctx, r.db).Table(accountsTable).
		Select("id, points, tier").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "scan account standing")
	}
	out := make([]domain.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Standing{AccountID: row.ID, Points: row.Points, Tier: domain.Tier(row.Tier)})
	}
	return out, nil
}
