// internal/service/exchange/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"zirako/internal/service/exchange/domain"
)

// ExchangeProposalModel 对应数据库中的 exchange_proposals 表
type ExchangeProposalModel struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement"`
	ProposerID         int64     `gorm:"not null;index"`
	ReceiverID         int64     `gorm:"not null;index"`
	OfferedListingID   int64     `gorm:"not null"`
	RequestedListingID int64     `gorm:"not null"`
	Message            string    `gorm:"type:text"`
	Status             string    `gorm:"type:varchar(16);not null;default:pending"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
	DecidedAt          *time.Time
}

// TableName 指定 GORM 应该使用的表名
func (ExchangeProposalModel) TableName() string {
	return "exchange_proposals"
}

func toProposalModel(p *domain.Proposal) *ExchangeProposalModel {
	return &ExchangeProposalModel{
		ID:                 p.ID,
		ProposerID:         p.ProposerID,
		ReceiverID:         p.ReceiverID,
		OfferedListingID:   p.OfferedListingID,
		RequestedListingID: p.RequestedListingID,
		Message:            p.Message,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		DecidedAt:          p.DecidedAt,
	}
}

func toDomainProposal(m *ExchangeProposalModel) *domain.Proposal {
	return &domain.Proposal{
		ID:                 m.ID,
		ProposerID:         m.ProposerID,
		ReceiverID:         m.ReceiverID,
		OfferedListingID:   m.OfferedListingID,
		RequestedListingID: m.RequestedListingID,
		Message:            m.Message,
		Status:             domain.Status(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DecidedAt:          m.DecidedAt,
	}
}
