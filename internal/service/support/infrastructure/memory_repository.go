// internal/service/support/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"

	"zirako/internal/service/support/domain"
)

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用
type MemoryRepository struct {
	mu   sync.Mutex
	rows []domain.Ticket
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// All 返回全部工单，包括匿名提交的
func (r *MemoryRepository) All() []domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Ticket(nil), r.rows...)
}

func (r *MemoryRepository) Insert(_ context.Context, t *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, *t)
	return nil
}

func (r *MemoryRepository) ListByAccount(_ context.Context, accountID int64, status *domain.Status) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for i := len(r.rows) - 1; i >= 0; i-- {
		t := r.rows[i]
		if t.AccountID == nil || *t.AccountID != accountID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
