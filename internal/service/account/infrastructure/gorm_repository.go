// internal/service/account/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/account/domain"
)

// GormAccountRepository 是 domain.Repository 的 GORM 实现。
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) Insert(ctx context.Context, a *domain.Account) error {
	model := toAccountModel(a)
	err := database.Conn(ctx, r.db).Create(model).Error
	if database.IsDuplicateKey(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return errors.Wrap(err, "insert account")
	}
	a.ID = model.ID
	return nil
}

func (r *GormAccountRepository) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.take(ctx, "email = ?", email)
}

func (r *GormAccountRepository) take(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var model AccountModel
	err := database.Conn(ctx, r.db).Where(query, arg).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	return toDomainAccount(&model), nil
}

func (r *GormAccountRepository) MarkLogin(ctx context.Context, id int64, at time.Time) error {
	err := database.Conn(ctx, r.db).Model(&AccountModel{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
	return errors.Wrapf(err, "mark login of account %d", id)
}

func (r *GormAccountRepository) VerifyEmail(ctx context.Context, token string, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&AccountModel{}).
		Where("verify_token = ?", token).
		Updates(map[string]any{
			"email_verified":    true,
			"email_verified_at": at,
			"verify_token":      nil,
			"updated_at":        at,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "verify email")
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidVerifyToken
	}
	return nil
}

func (r *GormAccountRepository) UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error {
	err := database.Conn(ctx, r.db).Model(&AccountModel{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": at}).Error
	return errors.Wrapf(err, "update password of account %d", id)
}

func (r *GormAccountRepository) UpdateProfile(ctx context.Context, a *domain.Account) error {
	err := database.Conn(ctx, r.db).Model(&AccountModel{}).Where("id = ?", a.ID).
		Updates(map[string]any{
			"name":       a.Name,
			"phone":      a.Phone,
			"city":       a.City,
			"address":    a.Address,
			"updated_at": a.UpdatedAt,
		}).Error
	return errors.Wrapf(err, "update profile of account %d", a.ID)
}

func (r *GormAccountRepository) Activity(ctx context.Context, id int64) (domain.Activity, error) {
	var act domain.Activity
	conn := database.Conn(ctx, r.db)
	counts := []struct {
		dst   *int64
		table string
		where string
		args  []any
	}{
		{&act.Listings, "listings", "owner_id = ?", []any{id}},
		{&act.Exchanges, "exchange_proposals", "proposer_id = ? OR receiver_id = ?", []any{id, id}},
		{&act.Pickups, "pickups", "account_id = ?", []any{id}},
		{&act.Favorites, "favorites", "account_id = ?", []any{id}},
	}
	for _, c := range counts {
		if err := conn.Table(c.table).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return act, errors.Wrapf(err, "count %s of account %d", c.table, id)
		}
	}
	return act, nil
}
