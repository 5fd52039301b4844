package db

import (
	"context"
	"errors"

	dbmodels "github.com/gartstein/partners/internal/directory/db/models"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	rec := dbmodels.FromBanner(banner)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	banner.ID = rec.ID
	return nil
}

func (r *Repository) GetBanner(ctx context.Context, id int64) (*models.Banner, error) {
	var rec dbmodels.Banner
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}
	return rec.ToDomain(), nil
}

func (r *Repository) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Banner{}).
		Where("id = ?", banner.ID).
		Select("image_url", "link_url", "alt_text", "display_order", "is_active", "updated_at").
		Updates(dbmodels.FromBanner(banner))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBanner(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Banner{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListBanners returns banners ordered by display order. activeOnly hides inactive ones.
func (r *Repository) ListBanners(ctx context.Context, activeOnly bool) ([]*models.Banner, error) {
	q := r.db.WithContext(ctx).Model(&dbmodels.Banner{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var recs []dbmodels.Banner
	if err := q.Order("display_order ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}

	banners := make([]*models.Banner, 0, len(recs))
	for i := range recs {
		banners = append(banners, recs[i].ToDomain())
	}
	return banners, nil
}
