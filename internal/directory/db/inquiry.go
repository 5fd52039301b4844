package db

import (
	"context"
	"errors"
	"time"

	dbmodels "github.com/gartstein/partners/internal/directory/db/models"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	rec := dbmodels.FromInquiry(inquiry)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	inquiry.ID = rec.ID
	return nil
}

func (r *Repository) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	var rec dbmodels.Inquiry
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}
	return rec.ToDomain(), nil
}

func (r *Repository) UpdateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Inquiry{}).
		Where("id = ?", inquiry.ID).
		Select("category", "content", "attachments", "name", "phone", "email", "password_hash", "updated_at").
		Updates(dbmodels.FromInquiry(inquiry))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) SetInquiryAnswered(ctx context.Context, id int64, answered bool, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_answered": answered, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteInquiry(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Inquiry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListInquiries returns one page of inquiries, newest first.
func (r *Repository) ListInquiries(ctx context.Context, filter models.InquiryFilter) ([]*models.Inquiry, int64, error) {
	page := filter.Page.Normalize()

	q := r.db.WithContext(ctx).Model(&dbmodels.Inquiry{})
	if filter.Category != "" {
		q = q.Where("category = ?", string(filter.Category))
	}
	if filter.IsAnswered != nil {
		q = q.Where("is_answered = ?", *filter.IsAnswered)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []dbmodels.Inquiry
	err := q.Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}

	inquiries := make([]*models.Inquiry, 0, len(recs))
	for i := range recs {
		inquiries = append(inquiries, recs[i].ToDomain())
	}
	return inquiries, total, nil
}

func (r *Repository) CountUnansweredInquiries(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmodels.Inquiry{}).
		Where("is_answered = ?", false).
		Count(&count).Error
	return count, err
}
