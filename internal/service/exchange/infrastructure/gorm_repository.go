// internal/service/exchange/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/exchange/domain"
)

// GormProposalRepository 是 domain.ProposalRepository 的 GORM 实现。
type GormProposalRepository struct {
	db *gorm.DB
}

func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

func (r *GormProposalRepository) Get(ctx context.Context, id int64) (*domain.Proposal, error) {
	var model ExchangeProposalModel
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProposalNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get proposal %d", id)
	}
	return toDomainProposal(&model), nil
}

func (r *GormProposalRepository) Insert(ctx context.Context, p *domain.Proposal) error {
	model := toProposalModel(p)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrap(err, "insert proposal")
	}
	p.ID = model.ID
	return nil
}

// UpdateStatus 以 status = from 为条件更新，影响行数为 0 说明已被其他请求决定
func (r *GormProposalRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&ExchangeProposalModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": at, "decided_at": at})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update proposal %d status", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyDecided
	}
	return nil
}

type proposalViewRow struct {
	ExchangeProposalModel
	OfferedTitle   string
	RequestedTitle string
	ProposerName   string
	ReceiverName   string
}

func (r *GormProposalRepository) ListForAccount(ctx context.Context, accountID int64, status *domain.Status) ([]domain.ProposalView, error) {
	q := database.Conn(ctx, r.db).Table("exchange_proposals AS e").
		Select(`e.*,
			lo.title AS offered_title, lr.title AS requested_title,
			ap.name AS proposer_name, ar.name AS receiver_name`).
		Joins("LEFT JOIN listings lo ON lo.id = e.offered_listing_id").
		Joins("LEFT JOIN listings lr ON lr.id = e.requested_listing_id").
		Joins("LEFT JOIN accounts ap ON ap.id = e.proposer_id").
		Joins("LEFT JOIN accounts ar ON ar.id = e.receiver_id").
		Where("(e.proposer_id = ? OR e.receiver_id = ?)", accountID, accountID)
	if status != nil {
		q = q.Where("e.status = ?", string(*status))
	}

	var rows []proposalViewRow
	if err := q.Order("e.created_at DESC, e.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list proposals of account %d", accountID)
	}
	out := make([]domain.ProposalView, 0, len(rows))
	for i := range rows {
		out = append(out, domain.ProposalView{
			Proposal:       *toDomainProposal(&rows[i].ExchangeProposalModel),
			OfferedTitle:   rows[i].OfferedTitle,
			RequestedTitle: rows[i].RequestedTitle,
			ProposerName:   rows[i].ProposerName,
			ReceiverName:   rows[i].ReceiverName,
		})
	}
	return out, nil
}
