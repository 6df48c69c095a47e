// internal/service/listing/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/listing/domain"
)

// GormListingRepository 是 domain.Repository 的 GORM 实现。
type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

type listingViewRow struct {
	ListingModel
	OwnerName  string
	OwnerPhone string
}

func (row *listingViewRow) toView() domain.ListingView {
	v := domain.ListingView{
		Listing:    toDomainListing(&row.ListingModel),
		OwnerName:  row.OwnerName,
		OwnerPhone: row.OwnerPhone,
	}
	for _, c := range domain.Categories() {
		if c.ID == v.Category {
			v.CategoryName = c.Name
		}
	}
	return v
}

func (r *GormListingRepository) viewQuery(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).Table("listings AS l").
		Select("l.*, a.name AS owner_name, a.phone AS owner_phone").
		Joins("LEFT JOIN accounts a ON a.id = l.owner_id")
}

func (r *GormListingRepository) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	var model ListingModel
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get listing %d", id)
	}
	l := toDomainListing(&model)
	return &l, nil
}

func (r *GormListingRepository) GetView(ctx context.Context, id int64) (*domain.ListingView, error) {
	var rows []listingViewRow
	if err := r.viewQuery(ctx).Where("l.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "get listing view %d", id)
	}
	if len(rows) == 0 {
		return nil, domain.ErrListingNotFound
	}
	v := rows[0].toView()
	return &v, nil
}

func (r *GormListingRepository) Insert(ctx context.Context, l *domain.Listing) error {
	model := toListingModel(l)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrap(err, "insert listing")
	}
	l.ID = model.ID
	return nil
}

func (r *GormListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	model := toListingModel(l)
	err := database.Conn(ctx, r.db).Model(model).
		Select("title", "description", "category", "kind", "item_condition", "price", "city", "images", "status", "updated_at").
		Updates(model).Error
	if err != nil {
		return errors.Wrapf(err, "update listing %d", l.ID)
	}
	return nil
}

// Delete 同时删除指向该物品的收藏
func (r *GormListingRepository) Delete(ctx context.Context, id int64) error {
	return database.NewTxManager(r.db).WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, r.db)
		if err := conn.Where("listing_id = ?", id).Delete(&FavoriteModel{}).Error; err != nil {
			return errors.Wrapf(err, "delete favorites of listing %d", id)
		}
		res := conn.Where("id = ?", id).Delete(&ListingModel{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "delete listing %d", id)
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotFound
		}
		return nil
	})
}

func (r *GormListingRepository) IncrementViews(ctx context.Context, id int64) error {
	res := database.Conn(ctx, r.db).Model(&ListingModel{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "increment views of listing %d", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *GormListingRepository) Search(ctx context.Context, f domain.SearchFilter) ([]domain.ListingView, error) {
	q := r.viewQuery(ctx).Where("l.status = ?", string(f.Status))
	if f.Category != "" {
		q = q.Where("l.category = ?", f.Category)
	}
	if f.Kind != "" {
		q = q.Where("l.kind = ?", string(f.Kind))
	}
	if f.City != "" {
		q = q.Where("l.city = ?", f.City)
	}
	if f.Text != "" {
		like := "%" + f.Text + "%"
		q = q.Where("(l.title LIKE ? OR l.description LIKE ?)", like, like)
	}

	var rows []listingViewRow
	err := q.Order("l.created_at DESC, l.id DESC").Limit(f.Limit).Offset(f.Offset).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "search listings")
	}
	return toViews(rows), nil
}

func (r *GormListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	var models []ListingModel
	err := database.Conn(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list listings of account %d", ownerID)
	}
	out := make([]domain.Listing, 0, len(models))
	for i := range models {
		out = append(out, toDomainListing(&models[i]))
	}
	return out, nil
}

func (r *GormListingRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&ListingModel{}).
		Where("id = ? AND status IN ?", id, []string{string(domain.StatusAvailable), string(domain.StatusReserved)}).
		Updates(map[string]any{"status": string(domain.StatusCompleted), "updated_at": at})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "complete listing %d", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyCompleted
	}
	return nil
}

func (r *GormListingRepository) AvailableByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := database.Conn(ctx, r.db).Model(&ListingModel{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", string(domain.StatusAvailable)).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count listings by category")
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

func (r *GormListingRepository) AddFavorite(ctx context.Context, accountID, listingID int64, at time.Time) error {
	err := database.Conn(ctx, r.db).Create(&FavoriteModel{AccountID: accountID, ListingID: listingID, CreatedAt: at}).Error
	if database.IsDuplicateKey(err) {
		return domain.ErrAlreadyFavorite
	}
	if err != nil {
		return errors.Wrap(err, "add favorite")
	}
	return nil
}

func (r *GormListingRepository) RemoveFavorite(ctx context.Context, accountID, listingID int64) error {
	res := database.Conn(ctx, r.db).Where("account_id = ? AND listing_id = ?", accountID, listingID).Delete(&FavoriteModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "remove favorite")
	}
	if res.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *GormListingRepository) Favorites(ctx context.Context, accountID int64) ([]domain.ListingView, error) {
	var rows []listingViewRow
	err := r.viewQuery(ctx).
		Joins("JOIN favorites f ON f.listing_id = l.id").
		Where("f.account_id = ?", accountID).
		Order("f.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "favorites of account %d", accountID)
	}
	return toViews(rows), nil
}

func toViews(rows []listingViewRow) []domain.ListingView {
	out := make([]domain.ListingView, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toView())
	}
	return out
}
