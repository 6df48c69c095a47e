// internal/service/support/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/support/domain"
)

// GormTicketRepository 是 domain.Repository 的 GORM 实现。
type GormTicketRepository struct {
	db *gorm.DB
}

func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

func (r *GormTicketRepository) Insert(ctx context.Context, t *domain.Ticket) error {
	model := toTicketModel(t)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrap(err, "insert ticket")
	}
	t.ID = model.ID
	return nil
}

func (r *GormTicketRepository) ListByAccount(ctx context.Context, accountID int64, status *domain.Status) ([]domain.Ticket, error) {
	q := database.Conn(ctx, r.db).Where("account_id = ?", accountID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	var models []TicketModel
	if err := q.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list tickets")
	}
	out := make([]domain.Ticket, 0, len(models))
	for i := range models {
		out = append(out, toDomainTicket(&models[i]))
	}
	return out, nil
}
