// internal/service/pickup/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"zirako/internal/service/pickup/domain"
)

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用
type MemoryRepository struct {
	mu     sync.Mutex
	rows   map[int64]domain.Pickup
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]domain.Pickup)}
}

// Snapshot 保存当前状态，返回的函数把仓储恢复到该状态
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make(map[int64]domain.Pickup, len(r.rows))
	for k, v := range r.rows {
		rows[k] = v
	}
	nextID := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows, r.nextID = rows, nextID
	}
}

// Count 返回预约总数
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *MemoryRepository) Insert(_ context.Context, p *domain.Pickup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = *p
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*domain.Pickup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrPickupNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) ListByAccount(_ context.Context, accountID int64) ([]domain.Pickup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Pickup
	for _, p := range r.rows {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Cancel(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || !p.Cancellable() {
		return domain.ErrNotCancellable
	}
	p.Status, p.UpdatedAt = domain.StatusCancelled, at
	r.rows[id] = p
	return nil
}

func (r *MemoryRepository) DueForReminder(_ context.Context, date time.Time, limit int) ([]domain.Pickup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := date.In(domain.Zone).Format(time.DateOnly)
	var out []domain.Pickup
	for _, p := range r.rows {
		if p.DateString() == day && p.ReminderSentAt == nil && p.Cancellable() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkReminded(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.ReminderSentAt != nil {
		return domain.ErrReminderAlreadySet
	}
	p.ReminderSentAt = &at
	r.rows[id] = p
	return nil
}
