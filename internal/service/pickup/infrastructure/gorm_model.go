// internal/service/pickup/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"zirako/internal/service/pickup/domain"
)

// PickupModel 对应数据库中的 pickups 表
type PickupModel struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	AccountID      int64      `gorm:"not null;index"`
	Address        string     `gorm:"type:varchar(255);not null"`
	City           string     `gorm:"type:varchar(64);not null"`
	ScheduledDate  time.Time  `gorm:"type:date;not null;index:idx_pickup_reminder,priority:1"`
	Slot           string     `gorm:"type:varchar(32);not null"`
	Description    string     `gorm:"type:text;not null"`
	Status         string     `gorm:"type:varchar(16);not null;default:pending"`
	ReminderSentAt *time.Time `gorm:"index:idx_pickup_reminder,priority:2"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (PickupModel) TableName() string {
	return "pickups"
}

// storageDate 把预约日期转换为 UTC 零点，DATE 列按连接时区 UTC 读写
func storageDate(t time.Time) time.Time {
	y, m, d := t.In(domain.Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toPickupModel(p *domain.Pickup) *PickupModel {
	return &PickupModel{
		ID:             p.ID,
		AccountID:      p.AccountID,
		Address:        p.Address,
		City:           p.City,
		ScheduledDate:  storageDate(p.Date),
		Slot:           p.Slot,
		Description:    p.Description,
		Status:         string(p.Status),
		ReminderSentAt: p.ReminderSentAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDomainPickup(m *PickupModel) *domain.Pickup {
	y, mo, d := m.ScheduledDate.Date()
	return &domain.Pickup{
		ID:             m.ID,
		AccountID:      m.AccountID,
		Address:        m.Address,
		City:           m.City,
		Date:           time.Date(y, mo, d, 0, 0, 0, 0, domain.Zone),
		Slot:           m.Slot,
		Description:    m.Description,
		Status:         domain.Status(m.Status),
		ReminderSentAt: m.ReminderSentAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
