// Package models contains the GORM records of the directory schema and their
// conversions to and from the domain models.
package models

import (
	"time"

	domain "github.com/gartstein/partners/internal/directory/models"
)

// Label kinds stored in t_company_labels.
const (
	KindTag       = "tag"
	KindPrimary   = "primary"
	KindSecondary = "secondary"
)

// Company is the t_companies row. Categories and tags live in CompanyLabel rows so
// overlap filters can be expressed as portable subqueries.
type Company struct {
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	Name           string         `gorm:"size:100;not null;index"`
	PasswordHash   string         `gorm:"size:100;not null"`
	ApprovalStatus string         `gorm:"size:16;not null;index"`
	ImageURL       *string        `gorm:"size:2048"`
	IntroText      string         `gorm:"size:2000"`
	Price          string         `gorm:"size:100"`
	Labels         []CompanyLabel `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Detail         *CompanyDetail `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time      `gorm:"autoCreateTime:false;index"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime:false"`
}

func (Company) TableName() string { return "t_companies" }

// CompanyLabel is one category or tag value of a company.
type CompanyLabel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	CompanyID int64  `gorm:"not null;index"`
	Kind      string `gorm:"size:16;not null;index:idx_label_kind_value,priority:1"`
	Value     string `gorm:"size:50;not null;index:idx_label_kind_value,priority:2"`
}

func (CompanyLabel) TableName() string { return "t_company_labels" }

// CompanyDetail is the optional 1:1 t_company_details row.
type CompanyDetail struct {
	ID           int64    `gorm:"primaryKey;autoIncrement"`
	CompanyID    int64    `gorm:"not null;uniqueIndex"`
	Phone        string   `gorm:"size:20"`
	Email        string   `gorm:"size:100"`
	DetailImages []string `gorm:"serializer:json;type:text"`
	DetailText   string   `gorm:"type:text"`
}

func (CompanyDetail) TableName() string { return "t_company_details" }

// FromCompany converts a domain company to its row. Labels and detail are returned
// separately so callers can write them in explicit steps.
func FromCompany(c *domain.Company) (*Company, []CompanyLabel, *CompanyDetail) {
	rec := &Company{
		ID:             c.ID,
		Name:           c.Name,
		PasswordHash:   c.PasswordHash,
		ApprovalStatus: string(c.ApprovalStatus),
		ImageURL:       c.ImageURL,
		IntroText:      c.IntroText,
		Price:          c.Price,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}

	var labels []CompanyLabel
	add := func(kind string, values []string) {
		for _, v := range values {
			labels = append(labels, CompanyLabel{CompanyID: c.ID, Kind: kind, Value: v})
		}
	}
	add(KindPrimary, c.PrimaryCategories)
	add(KindSecondary, c.SecondaryCategories)
	add(KindTag, c.Tags)

	var detail *CompanyDetail
	if c.Detail != nil {
		detail = &CompanyDetail{
			CompanyID:    c.ID,
			Phone:        c.Detail.Phone,
			Email:        c.Detail.Email,
			DetailImages: c.Detail.DetailImages,
			DetailText:   c.Detail.DetailText,
		}
	}
	return rec, labels, detail
}

// ToDomain converts a row with its preloaded labels and detail.
func (r *Company) ToDomain() *domain.Company {
	c := &domain.Company{
		ID:                  r.ID,
		Name:                r.Name,
		PasswordHash:        r.PasswordHash,
		ApprovalStatus:      domain.ApprovalStatus(r.ApprovalStatus),
		ImageURL:            r.ImageURL,
		IntroText:           r.IntroText,
		Price:               r.Price,
		PrimaryCategories:   []string{},
		SecondaryCategories: []string{},
		Tags:                []string{},
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	for _, l := range r.Labels {
		switch l.Kind {
		case KindPrimary:
			c.PrimaryCategories = append(c.PrimaryCategories, l.Value)
		case KindSecondary:
			c.SecondaryCategories = append(c.SecondaryCategories, l.Value)
		case KindTag:
			c.Tags = append(c.Tags, l.Value)
		}
	}
	if r.Detail != nil {
		images := r.Detail.DetailImages
		if images == nil {
			images = []string{}
		}
		c.Detail = &domain.CompanyDetail{
			Phone:        r.Detail.Phone,
			Email:        r.Detail.Email,
			DetailImages: images,
			DetailText:   r.Detail.DetailText,
		}
	}
	return c
}
