// internal/service/account/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"zirako/internal/service/account/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// AccountModel 对应数据库中的 accounts 表。
// points 与 tier 两列由奖励模块以相对增量维护。
type AccountModel struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Email           string  `gorm:"type:varchar(191);not null;uniqueIndex"`
	PasswordHash    string  `gorm:"type:varchar(100);not null"`
	Name            string  `gorm:"type:varchar(120);not null"`
	Phone           string  `gorm:"type:varchar(32)"`
	City            string  `gorm:"type:varchar(64);not null;default:Cali"`
	Address         string  `gorm:"type:varchar(255)"`
	Points          int64   `gorm:"not null;default:0"`
	Tier            int     `gorm:"not null;default:1"`
	EmailVerified   bool    `gorm:"not null;default:false"`
	VerifyToken     *string `gorm:"type:varchar(64);uniqueIndex"`
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (AccountModel) TableName() string {
	return "accounts"
}

func toAccountModel(a *domain.Account) *AccountModel {
	m := &AccountModel{
		ID:            a.ID,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Name:          a.Name,
		Phone:         a.Phone,
		City:          a.City,
		Address:       a.Address,
		Points:        a.Points,
		Tier:          int(a.Tier),
		EmailVerified: a.EmailVerified,
		LastLoginAt:   a.LastLoginAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.VerifyToken != "" {
		token := a.VerifyToken
		m.VerifyToken = &token
	}
	return m
}

func toDomainAccount(m *AccountModel) *domain.Account {
	a := &domain.Account{
		ID:            m.ID,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Name:          m.Name,
		Phone:         m.Phone,
		City:          m.City,
		Address:       m.Address,
		Points:        m.Points,
		Tier:          rewarddomain.Tier(m.Tier),
		EmailVerified: m.EmailVerified,
		LastLoginAt:   m.LastLoginAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.VerifyToken != nil {
		a.VerifyToken = *m.VerifyToken
	}
	return a
}
