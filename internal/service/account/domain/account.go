// internal/service/account/domain/account.go
package domain

import (
	"regexp"
	"strings"
	"time"

	"zirako/internal/pkg/apperr"
	rewarddomain "zirako/internal/service/reward/domain"
)

const (
	DefaultCity       = "Cali"
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Account 是平台用户
type Account struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Phone         string
	City          string
	Address       string
	Points        int64
	Tier          rewarddomain.Tier
	EmailVerified bool
	VerifyToken   string
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Registration 是注册时的输入
type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	City     string
	Address  string
}

// NormalizeEmail 统一邮箱大小写与空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate 校验注册输入
func (r *Registration) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" || strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("Email, contraseña y nombre son requeridos")
	}
	if !emailPattern.MatchString(NormalizeEmail(r.Email)) {
		return apperr.Validation("Formato de email inválido")
	}
	if len([]rune(r.Password)) < minPasswordLength {
		return apperr.Validation("La contraseña debe tener al menos %d caracteres", minPasswordLength)
	}
	return nil
}

// NewAccount 用已校验的注册信息创建账户，初始 0 积分、铜牌等级
func NewAccount(r Registration, passwordHash, verifyToken string, now time.Time) *Account {
	city := strings.TrimSpace(r.City)
	if city == "" {
		city = DefaultCity
	}
	return &Account{
		Email:        NormalizeEmail(r.Email),
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(r.Name),
		Phone:        strings.TrimSpace(r.Phone),
		City:         city,
		Address:      strings.TrimSpace(r.Address),
		Tier:         rewarddomain.TierBronze,
		VerifyToken:  verifyToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ProfilePatch 是资料的部分更新，nil 字段保持不变
type ProfilePatch struct {
	Name    *string
	Phone   *string
	City    *string
	Address *string
}

func (a *Account) Apply(p ProfilePatch, now time.Time) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return apperr.Validation("name must not be empty")
		}
		a.Name = name
	}
	if p.Phone != nil {
		a.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.City != nil {
		a.City = strings.TrimSpace(*p.City)
		if a.City == "" {
			a.City = DefaultCity
		}
	}
	if p.Address != nil {
		a.Address = strings.TrimSpace(*p.Address)
	}
	a.UpdatedAt = now
	return nil
}

// Activity 是账户在各模块中的计数
type Activity struct {
	Listings  int64 `json:"listings"`
	Exchanges int64 `json:"exchanges"`
	Pickups   int64 `json:"pickups"`
	Favorites int64 `json:"favorites"`
}
