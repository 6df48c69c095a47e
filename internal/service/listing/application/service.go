// internal/service/listing/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zirako/internal/pkg/logger"
	"zirako/internal/service/listing/domain"
	"zirako/internal/service/listing/port"
	rewarddomain "zirako/internal/service/reward/domain"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ListingService 负责物品的发布、查询、修改、完成与收藏
type ListingService struct {
	repo    domain.Repository
	rewards port.RewardGranter
	tx      port.TxManager
	tracer  trace.Tracer
	now     func() time.Time
}

func NewListingService(repo domain.Repository, rewards port.RewardGranter, tx port.TxManager, tracer trace.Tracer) *ListingService {
	return &ListingService{repo: repo, rewards: rewards, tx: tx, tracer: tracer, now: time.Now}
}

func (s *ListingService) Create(ctx context.Context, ownerID int64, req *CreateListingRequest) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateListing", trace.WithAttributes(attribute.Int64("account.id", ownerID)))
	defer span.End()

	l, err := domain.NewListing(ownerID, req.draft(), s.now().UTC())
	if err != nil {
		return nil, fail(span, err, "invalid listing")
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, fail(span, err, "insert listing")
	}
	logger.Ctx(ctx).Info().Int64("listing_id", l.ID).Int64("owner_id", ownerID).Str("kind", string(l.Kind)).Msg("listing published")
	return l, nil
}

// Get 返回物品详情并累加一次浏览量
func (s *ListingService) Get(ctx context.Context, id int64) (*domain.ListingView, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetListing", trace.WithAttributes(attribute.Int64("listing.id", id)))
	defer span.End()

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, fail(span, err, "increment views")
	}
	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, fail(span, err, "load listing")
	}
	return v, nil
}

// Search 按条件搜索物品。状态默认 available，limit 默认 20、最大 100。
func (s *ListingService) Search(ctx context.Context, f domain.SearchFilter) ([]domain.ListingView, error) {
	ctx, span := s.tracer.Start(ctx, "app.SearchListings")
	defer span.End()

	if f.Status == "" {
		f.Status = domain.StatusAvailable
	}
	if f.Category != "" {
		f.Category = domain.NormalizeCategory(f.Category)
	}
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	if f.Limit > maxSearchLimit {
		f.Limit = maxSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	views, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, fail(span, err, "search listings")
	}
	span.SetAttributes(attribute.Int("listing.count", len(views)))
	return views, nil
}

func (s *ListingService) Mine(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.MyListings", trace.WithAttributes(attribute.Int64("account.id", ownerID)))
	defer span.End()

	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fail(span, err, "list own listings")
	}
	return listings, nil
}

func (s *ListingService) Update(ctx context.Context, actorID, id int64, patch domain.Patch) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateListing", trace.WithAttributes(
		attribute.Int64("account.id", actorID),
		attribute.Int64("listing.id", id),
	))
	defer span.End()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fail(span, err, "load listing")
	}
	if err := l.Apply(actorID, patch, s.now().UTC()); err != nil {
		return nil, fail(span, err, "patch rejected")
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fail(span, err, "update listing")
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, actorID, id int64) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteListing", trace.WithAttributes(
		attribute.Int64("account.id", actorID),
		attribute.Int64("listing.id", id),
	))
	defer span.End()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return fail(span, err, "load listing")
	}
	if l.OwnerID != actorID {
		return fail(span, domain.ErrNotOwner, "not owner")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fail(span, err, "delete listing")
	}
	logger.Ctx(ctx).Info().Int64("listing_id", id).Msg("listing deleted")
	return nil
}

// Complete 把物品标记为完成。状态更新以 available|reserved 为条件，
// 捐赠与出售类物品在同一事务内为所有者发放对应奖励。
func (s *ListingService) Complete(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "app.CompleteListing", trace.WithAttributes(
		attribute.Int64("account.id", actorID),
		attribute.Int64("listing.id", id),
	))
	defer span.End()

	var listing *domain.Listing
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := l.CanComplete(actorID); err != nil {
			return err
		}
		now := s.now().UTC()
		if err := s.repo.MarkCompleted(ctx, id, now); err != nil {
			return err
		}
		if kind, ok := l.Kind.RewardKind(); ok {
			listingID := l.ID
			if _, err := s.rewards.Grant(ctx, l.OwnerID, kind, rewarddomain.Ref{ListingID: &listingID}); err != nil {
				return err
			}
		}
		l.Status = domain.StatusCompleted
		l.UpdatedAt = now
		listing = l
		return nil
	})
	if err != nil {
		return nil, fail(span, err, "complete listing")
	}
	logger.Ctx(ctx).Info().Int64("listing_id", id).Str("kind", string(listing.Kind)).Msg("listing completed")
	return listing, nil
}

// Categories 返回分类目录及每个分类下的可用物品数量
func (s *ListingService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	ctx, span := s.tracer.Start(ctx, "app.Categories")
	defer span.End()

	counts, err := s.repo.AvailableByCategory(ctx)
	if err != nil {
		return nil, fail(span, err, "count categories")
	}
	cats := domain.Categories()
	out := make([]domain.CategoryCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.CategoryCount{Category: c, Available: counts[c.ID]})
	}
	return out, nil
}

func (s *ListingService) AddFavorite(ctx context.Context, accountID, listingID int64) error {
	ctx, span := s.tracer.Start(ctx, "app.AddFavorite", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int64("listing.id", listingID),
	))
	defer span.End()

	if _, err := s.repo.Get(ctx, listingID); err != nil {
		return fail(span, err, "load listing")
	}
	if err := s.repo.AddFavorite(ctx, accountID, listingID, s.now().UTC()); err != nil {
		return fail(span, err, "add favorite")
	}
	return nil
}

func (s *ListingService) RemoveFavorite(ctx context.Context, accountID, listingID int64) error {
	ctx, span := s.tracer.Start(ctx, "app.RemoveFavorite", trace.WithAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int64("listing.id", listingID),
	))
	defer span.End()

	if err := s.repo.RemoveFavorite(ctx, accountID, listingID); err != nil {
		return fail(span, err, "remove favorite")
	}
	return nil
}

func (s *ListingService) Favorites(ctx context.Context, accountID int64) ([]domain.ListingView, error) {
	ctx, span := s.tracer.Start(ctx, "app.Favorites", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	views, err := s.repo.Favorites(ctx, accountID)
	if err != nil {
		return nil, fail(span, err, "list favorites")
	}
	return views, nil
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
