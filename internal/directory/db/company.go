package db

import (
	"context"
	"errors"
	"time"

	dbmodels "github.com/gartstein/partners/internal/directory/db/models"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateCompany inserts the company, its labels and its detail. Callers wanting the three
// writes to be atomic run it inside WithTransaction.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	rec, labels, detail := dbmodels.FromCompany(company)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return err
	}
	company.ID = rec.ID

	if err := r.insertLabels(ctx, rec.ID, labels); err != nil {
		return err
	}
	if detail != nil {
		detail.CompanyID = rec.ID
		if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var rec dbmodels.Company
	result := r.db.WithContext(ctx).
		Preload("Labels", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Detail").
		First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return rec.ToDomain(), nil
}

// UpdateCompany overwrites every column of the company, replaces its labels and
// upserts its detail when one is set.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	rec, labels, detail := dbmodels.FromCompany(company)

	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", company.ID).
		Select("name", "password_hash", "approval_status", "image_url", "intro_text", "price", "updated_at").
		Updates(rec)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}

	if err := r.db.WithContext(ctx).Where("company_id = ?", company.ID).Delete(&dbmodels.CompanyLabel{}).Error; err != nil {
		return err
	}
	if err := r.insertLabels(ctx, company.ID, labels); err != nil {
		return err
	}

	if detail != nil {
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone", "email", "detail_images", "detail_text"}),
		}).Create(detail).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateCompanyStatus sets the approval status and the modification time.
func (r *Repository) UpdateCompanyStatus(ctx context.Context, id int64, status models.ApprovalStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{"approval_status": string(status), "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCompany removes the company together with its labels and detail.
func (r *Repository) DeleteCompany(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("company_id = ?", id).Delete(&dbmodels.CompanyLabel{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("company_id = ?", id).Delete(&dbmodels.CompanyDetail{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&dbmodels.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListCompanies returns one page of companies, newest first, and the total number of
// matching rows.
func (r *Repository) ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int64, error) {
	page := filter.Page.Normalize()

	q := r.db.WithContext(ctx).Model(&dbmodels.Company{})
	if filter.Status != "" {
		q = q.Where("approval_status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	for kind, values := range map[string][]string{
		dbmodels.KindTag:       filter.Tags,
		dbmodels.KindPrimary:   filter.PrimaryCategories,
		dbmodels.KindSecondary: filter.SecondaryCategories,
	} {
		if len(values) == 0 {
			continue
		}
		sub := r.db.Model(&dbmodels.CompanyLabel{}).
			Select("company_id").
			Where("kind = ? AND value IN ?", kind, values)
		q = q.Where("id IN (?)", sub)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []dbmodels.Company
	err := q.
		Preload("Labels", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Detail").
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}

	companies := make([]*models.Company, 0, len(recs))
	for i := range recs {
		companies = append(companies, recs[i].ToDomain())
	}
	return companies, total, nil
}

func (r *Repository) insertLabels(ctx context.Context, companyID int64, labels []dbmodels.CompanyLabel) error {
	if len(labels) == 0 {
		return nil
	}
	for i := range labels {
		labels[i].CompanyID = companyID
	}
	return r.db.WithContext(ctx).Create(&labels).Error
}
