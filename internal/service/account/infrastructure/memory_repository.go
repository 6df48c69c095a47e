// internal/service/account/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"
	"time"

	"zirako/internal/service/account/domain"
)

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
	activity map[int64]domain.Activity
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[int64]domain.Account),
		activity: make(map[int64]domain.Activity),
	}
}

// SetActivity 设置账户的活动计数
func (r *MemoryRepository) SetActivity(id int64, act domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activity[id] = act
}

// Snapshot 保存当前状态，返回的函数把仓储恢复到该状态
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make(map[int64]domain.Account, len(r.accounts))
	for k, v := range r.accounts {
		accounts[k] = v
	}
	nextID := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.accounts, r.nextID = accounts, nextID
	}
}

func (r *MemoryRepository) Insert(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return domain.ErrEmailTaken
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.accounts[a.ID] = *a
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *MemoryRepository) MarkLogin(_ context.Context, id int64, at time.Time) error {
	return r.update(id, func(a *domain.Account) { a.LastLoginAt = &at })
}

func (r *MemoryRepository) VerifyEmail(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.accounts {
		if a.VerifyToken != "" && a.VerifyToken == token {
			a.EmailVerified = true
			a.VerifyToken = ""
			a.UpdatedAt = at
			r.accounts[id] = a
			return nil
		}
	}
	return domain.ErrInvalidVerifyToken
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id int64, hash string, at time.Time) error {
	return r.update(id, func(a *domain.Account) {
		a.PasswordHash = hash
		a.UpdatedAt = at
	})
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, in *domain.Account) error {
	return r.update(in.ID, func(a *domain.Account) {
		a.Name, a.Phone, a.City, a.Address = in.Name, in.Phone, in.City, in.Address
		a.UpdatedAt = in.UpdatedAt
	})
}

func (r *MemoryRepository) Activity(_ context.Context, id int64) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.Activity{}, domain.ErrAccountNotFound
	}
	return r.activity[id], nil
}

func (r *MemoryRepository) update(id int64, fn func(a *domain.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	fn(&a)
	r.accounts[id] = a
	return nil
}
