// internal/service/reward/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/service/reward/domain"
)

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用。
// 积分更新在互斥锁内完成，与 SQL 的相对增量语义一致。
type MemoryRepository struct {
	mu      sync.Mutex
	points  map[int64]int64
	tiers   map[int64]domain.Tier
	actions []domain.ImpactAction
	nextID  int64
	titles  map[int64]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		points: make(map[int64]int64),
		tiers:  make(map[int64]domain.Tier),
		titles: make(map[int64]string),
	}
}

// SetListingTitle 登记物品标题，Recent 会像 LEFT JOIN 一样带上它
func (r *MemoryRepository) SetListingTitle(listingID int64, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles[listingID] = title
}

// Seed 创建或覆盖一个账户
func (r *MemoryRepository) Seed(accountID, points int64, tier domain.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[accountID] = points
	r.tiers[accountID] = tier
}

// Snapshot 保存当前状态，返回的函数把仓储恢复到该状态，用于模拟事务回滚
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	points := make(map[int64]int64, len(r.points))
	for k, v := range r.points {
		points[k] = v
	}
	tiers := make(map[int64]domain.Tier, len(r.tiers))
	for k, v := range r.tiers {
		tiers[k] = v
	}
	actions := append([]domain.ImpactAction(nil), r.actions...)
	nextID := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.points, r.tiers, r.actions, r.nextID = points, tiers, actions, nextID
	}
}

// Tier 返回账户已保存的等级
func (r *MemoryRepository) Tier(accountID int64) domain.Tier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tiers[accountID]
}

// Actions 返回指定账户的全部行为记录
func (r *MemoryRepository) Actions(accountID int64) []domain.ImpactAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ImpactAction
	for _, a := range r.actions {
		if a.AccountID == accountID {
			out = append(out, a)
		}
	}
	return out
}

func (r *MemoryRepository) GetPoints(_ context.Context, accountID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.points[accountID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	return p, nil
}

func (r *MemoryRepository) AddPoints(_ context.Context, accountID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.points[accountID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	p += delta
	r.points[accountID] = p
	return p, nil
}

func (r *MemoryRepository) SetTier(_ context.Context, accountID int64, tier domain.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.points[accountID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.tiers[accountID] = tier
	return nil
}

func (r *MemoryRepository) InsertImpactAction(_ context.Context, action *domain.ImpactAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.points[action.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.nextID++
	action.ID = r.nextID
	r.actions = append(r.actions, *action)
	return nil
}

func (r *MemoryRepository) Totals(_ context.Context, accountID int64) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	var count int64
	for _, a := range r.actions {
		if a.AccountID == accountID {
			total = total.Add(a.Co2Kg)
			count++
		}
	}
	return total, count, nil
}

func (r *MemoryRepository) BreakdownByKind(_ context.Context, accountID int64) ([]domain.KindTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind := map[domain.ActionKind]*domain.KindTotal{}
	for _, a := range r.actions {
		if a.AccountID != accountID {
			continue
		}
		kt, ok := byKind[a.Kind]
		if !ok {
			kt = &domain.KindTotal{Kind: a.Kind, Co2Kg: decimal.Zero}
			byKind[a.Kind] = kt
		}
		kt.Count++
		kt.Co2Kg = kt.Co2Kg.Add(a.Co2Kg)
		kt.Points += a.Points
	}
	var out []domain.KindTotal
	for _, kind := range domain.ActionKinds() {
		if kt, ok := byKind[kind]; ok {
			out = append(out, *kt)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Monthly(_ context.Context, accountID int64, since time.Time) ([]domain.MonthTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMonth := map[string]*domain.MonthTotal{}
	for _, a := range r.actions {
		if a.AccountID != accountID || a.CreatedAt.Before(since) {
			continue
		}
		key := a.CreatedAt.UTC().Format("2006-01")
		mt, ok := byMonth[key]
		if !ok {
			mt = &domain.MonthTotal{Month: key, Co2Kg: decimal.Zero}
			byMonth[key] = mt
		}
		mt.Count++
		mt.Co2Kg = mt.Co2Kg.Add(a.Co2Kg)
		mt.Points += a.Points
	}
	out := make([]domain.MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (r *MemoryRepository) Recent(_ context.Context, accountID int64, limit int) ([]domain.ImpactAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ImpactAction
	for i := len(r.actions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.actions[i].AccountID == accountID {
			a := r.actions[i]
			if a.ListingID != nil {
				a.ListingTitle = r.titles[*a.ListingID]
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ScanStanding(_ context.Context, afterID int64, limit int) ([]domain.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.points))
	for id := range r.points {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domain.Standing, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Standing{AccountID: id, Points: r.points[id], Tier: r.tiers[id]})
	}
	return out, nil
}
