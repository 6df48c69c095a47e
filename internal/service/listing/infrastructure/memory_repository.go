// internal/service/listing/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"zirako/internal/service/listing/domain"
)

type favoriteKey struct{ account, listing int64 }

// MemoryRepository 是 domain.Repository 的内存实现，供测试与本地演示使用。
type MemoryRepository struct {
	mu        sync.Mutex
	listings  map[int64]domain.Listing
	favorites map[favoriteKey]time.Time
	nextID    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		listings:  make(map[int64]domain.Listing),
		favorites: make(map[favoriteKey]time.Time),
	}
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *MemoryRepository) GetView(ctx context.Context, id int64) (*domain.ListingView, error) {
	l, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ListingView{Listing: *l}, nil
}

func (r *MemoryRepository) Insert(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	r.listings[l.ID] = *l
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.listings[l.ID] = *l
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	for k := range r.favorites {
		if k.listing == id {
			delete(r.favorites, k)
		}
	}
	return nil
}

func (r *MemoryRepository) IncrementViews(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Views++
	r.listings[id] = l
	return nil
}

func (r *MemoryRepository) Search(_ context.Context, f domain.SearchFilter) ([]domain.ListingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ListingView
	for _, l := range r.sorted() {
		if l.Status != f.Status ||
			(f.Category != "" && l.Category != f.Category) ||
			(f.Kind != "" && l.Kind != f.Kind) ||
			(f.City != "" && l.City != f.City) {
			continue
		}
		if f.Text != "" && !strings.Contains(l.Title, f.Text) && !strings.Contains(l.Description, f.Text) {
			continue
		}
		out = append(out, domain.ListingView{Listing: l})
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.sorted() {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkCompleted(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok || l.Status == domain.StatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	l.Status, l.UpdatedAt = domain.StatusCompleted, at
	r.listings[id] = l
	return nil
}

func (r *MemoryRepository) AvailableByCategory(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, l := range r.listings {
		if l.Status == domain.StatusAvailable {
			out[l.Category]++
		}
	}
	return out, nil
}

func (r *MemoryRepository) AddFavorite(_ context.Context, accountID, listingID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favoriteKey{accountID, listingID}
	if _, ok := r.favorites[k]; ok {
		return domain.ErrAlreadyFavorite
	}
	r.favorites[k] = at
	return nil
}

func (r *MemoryRepository) RemoveFavorite(_ context.Context, accountID, listingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favoriteKey{accountID, listingID}
	if _, ok := r.favorites[k]; !ok {
		return domain.ErrFavoriteNotFound
	}
	delete(r.favorites, k)
	return nil
}

func (r *MemoryRepository) Favorites(_ context.Context, accountID int64) ([]domain.ListingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ListingView
	for _, l := range r.sorted() {
		if _, ok := r.favorites[favoriteKey{accountID, l.ID}]; ok {
			out = append(out, domain.ListingView{Listing: l})
		}
	}
	return out, nil
}

// sorted 按 ID 倒序返回全部物品，调用方持有锁
func (r *MemoryRepository) sorted() []domain.Listing {
	out := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
