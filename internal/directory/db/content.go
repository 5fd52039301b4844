package db

import (
	"context"
	"errors"

	dbmodels "github.com/gartstein/partners/internal/directory/db/models"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateContent(ctx context.Context, content *models.Content) error {
	rec := dbmodels.FromContent(content)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	content.ID = rec.ID
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	var rec dbmodels.Content
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}
	return rec.ToDomain(), nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *models.Content) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Content{}).
		Where("id = ?", content.ID).
		Select("title", "thumbnail_url", "body", "image_urls", "is_pinned", "updated_at").
		Updates(dbmodels.FromContent(content))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// IncrementContentViews bumps the view counter without touching updated_at.
func (r *Repository) IncrementContentViews(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Content{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Content{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListContents returns one page of contents, pinned first and then newest first.
func (r *Repository) ListContents(ctx context.Context, page models.Page) ([]*models.Content, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&dbmodels.Content{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []dbmodels.Content
	err := q.Order("is_pinned DESC").
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}

	contents := make([]*models.Content, 0, len(recs))
	for i := range recs {
		contents = append(contents, recs[i].ToDomain())
	}
	return contents, total, nil
}
