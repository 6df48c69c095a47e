// internal/service/account/application/dto.go
package application

import (
	"time"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/account/domain"
	rewarddomain "zirako/internal/service/reward/domain"
)

// RegisterRequest 是注册请求体
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	return r.registration().Validate()
}

func (r *RegisterRequest) registration() *domain.Registration {
	return &domain.Registration{
		Email: r.Email, Password: r.Password, Name: r.Name,
		Phone: r.Phone, City: r.City, Address: r.Address,
	}
}

// LoginRequest 是登录请求体
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return apperr.Validation("Email y contraseña son requeridos")
	}
	return nil
}

// ForgotPasswordRequest 是找回密码请求体
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	if r.Email == "" {
		return apperr.Validation("Email es requerido")
	}
	return nil
}

// UpdateProfileRequest 是资料更新请求体，缺省字段保持不变
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	City    *string `json:"city,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name == nil && r.Phone == nil && r.City == nil && r.Address == nil {
		return apperr.Validation("nothing to update")
	}
	return nil
}

func (r *UpdateProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{Name: r.Name, Phone: r.Phone, City: r.City, Address: r.Address}
}

// AccountResponse 是账户的公开表示，不含密码与令牌
type AccountResponse struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	City          string     `json:"city"`
	Address       string     `json:"address,omitempty"`
	Points        int64      `json:"points"`
	Tier          int        `json:"tier"`
	TierName      string     `json:"tier_name"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToAccountResponse(a *domain.Account) AccountResponse {
	tier := rewarddomain.TierFor(a.Points)
	return AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		Name:          a.Name,
		Phone:         a.Phone,
		City:          a.City,
		Address:       a.Address,
		Points:        a.Points,
		Tier:          int(tier),
		TierName:      tier.Name(),
		EmailVerified: a.EmailVerified,
		LastLoginAt:   a.LastLoginAt,
		CreatedAt:     a.CreatedAt,
	}
}

// LoginResult 是登录成功的结果
type LoginResult struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"user"`
}

// Profile 是个人主页需要的全部数据
type Profile struct {
	AccountResponse
	PointsToNextTier int64                 `json:"points_to_next_tier"`
	Activity         domain.Activity       `json:"activity"`
	Impact           *rewarddomain.Summary `json:"impact"`
}
