// internal/service/pickup/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/pickup/domain"
)

// GormPickupRepository 是 domain.Repository 的 GORM 实现。
type GormPickupRepository struct {
	db *gorm.DB
}

func NewGormPickupRepository(db *gorm.DB) *GormPickupRepository {
	return &GormPickupRepository{db: db}
}

func (r *GormPickupRepository) Insert(ctx context.Context, p *domain.Pickup) error {
	model := toPickupModel(p)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrap(err, "insert pickup")
	}
	p.ID = model.ID
	return nil
}

func (r *GormPickupRepository) Get(ctx context.Context, id int64) (*domain.Pickup, error) {
	var model PickupModel
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPickupNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load pickup %d", id)
	}
	return toDomainPickup(&model), nil
}

func (r *GormPickupRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Pickup, error) {
	var models []PickupModel
	err := database.Conn(ctx, r.db).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list pickups")
	}
	return toDomainPickups(models), nil
}

func (r *GormPickupRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&PickupModel{}).
		Where("id = ? AND status IN ?", id, []string{string(domain.StatusPending), string(domain.StatusConfirmed)}).
		Updates(map[string]any{"status": string(domain.StatusCancelled), "updated_at": at})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "cancel pickup %d", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotCancellable
	}
	return nil
}

func (r *GormPickupRepository) DueForReminder(ctx context.Context, date time.Time, limit int) ([]domain.Pickup, error) {
	var models []PickupModel
	err := database.Conn(ctx, r.db).
		Where("scheduled_date = ? AND reminder_sent_at IS NULL AND status IN ?",
			storageDate(date), []string{string(domain.StatusPending), string(domain.StatusConfirmed)}).
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "load due pickups")
	}
	return toDomainPickups(models), nil
}

func (r *GormPickupRepository) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&PickupModel{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		UpdateColumn("reminder_sent_at", at)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "mark pickup %d reminded", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrReminderAlreadySet
	}
	return nil
}

func toDomainPickups(models []PickupModel) []domain.Pickup {
	out := make([]domain.Pickup, 0, len(models))
	for i := range models {
		out = append(out, *toDomainPickup(&models[i]))
	}
	return out
}
