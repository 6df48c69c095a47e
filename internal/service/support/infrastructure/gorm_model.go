// internal/service/support/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"zirako/internal/service/support/domain"
)

// TicketModel 对应数据库中的 support_tickets 表
type TicketModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AccountID *int64    `gorm:"index"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Email     string    `gorm:"type:varchar(191);not null"`
	Subject   string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	Category  string    `gorm:"type:varchar(32)"`
	Priority  string    `gorm:"type:varchar(16);not null;default:medium"`
	Status    string    `gorm:"type:varchar(16);not null;default:open"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (TicketModel) TableName() string {
	return "support_tickets"
}

func toTicketModel(t *domain.Ticket) *TicketModel {
	return &TicketModel{
		ID:        t.ID,
		AccountID: t.AccountID,
		Name:      t.Name,
		Email:     t.Email,
		Subject:   t.Subject,
		Message:   t.Message,
		Category:  t.Category,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toDomainTicket(m *TicketModel) domain.Ticket {
	return domain.Ticket{
		ID:        m.ID,
		AccountID: m.AccountID,
		Contact:   domain.Contact{Name: m.Name, Email: m.Email},
		Subject:   m.Subject,
		Message:   m.Message,
		Category:  m.Category,
		Priority:  domain.Priority(m.Priority),
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
