// internal/service/messaging/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"zirako/internal/service/messaging/domain"
)

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用。
// 账户名称通过 SetName 登记。
type MemoryRepository struct {
	mu    sync.Mutex
	rows  []domain.Message
	names map[int64]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{names: make(map[int64]string)}
}

func (r *MemoryRepository) SetName(accountID int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[accountID] = name
}

// Snapshot 保存当前状态，返回的函数把仓储恢复到该状态
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := append([]domain.Message(nil), r.rows...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows = rows
	}
}

// Count 返回私信总数
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *MemoryRepository) Insert(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, *m)
	return nil
}

func (r *MemoryRepository) Conversation(_ context.Context, a, b int64) ([]domain.MessageView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MessageView
	for _, m := range r.rows {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, domain.MessageView{Message: m, SenderName: r.names[m.SenderID], RecipientName: r.names[m.RecipientID]})
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, recipientID, senderID int64, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		m := &r.rows[i]
		if m.RecipientID == recipientID && m.SenderID == senderID && !m.Read {
			m.Read = true
			m.ReadAt = &at
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Conversations(_ context.Context, accountID int64) ([]domain.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCounterpart := map[int64]*domain.ConversationSummary{}
	for _, m := range r.rows {
		var other int64
		switch accountID {
		case m.SenderID:
			other = m.RecipientID
		case m.RecipientID:
			other = m.SenderID
		default:
			continue
		}
		c, ok := byCounterpart[other]
		if !ok {
			c = &domain.ConversationSummary{CounterpartID: other, CounterpartName: r.names[other]}
			byCounterpart[other] = c
		}
		c.LastMessage, c.LastMessageAt = m.Content, m.CreatedAt
		if m.RecipientID == accountID && !m.Read {
			c.Unread++
		}
	}
	out := make([]domain.ConversationSummary, 0, len(byCounterpart))
	for _, c := range byCounterpart {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}
