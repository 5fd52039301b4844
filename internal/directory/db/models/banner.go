package models

import (
	"time"

	domain "github.com/gartstein/partners/internal/directory/models"
)

type Banner struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	ImageURL     string `gorm:"size:2048;not null"`
	LinkURL      string `gorm:"size:2048"`
	AltText      string `gorm:"size:200"`
	DisplayOrder int    `gorm:"not null;index"`
	// no gorm default: a default would replace an explicit false on insert
	IsActive  bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (Banner) TableName() string { return "t_home_banners" }

func FromBanner(b *domain.Banner) *Banner {
	return &Banner{
		ID:           b.ID,
		ImageURL:     b.ImageURL,
		LinkURL:      b.LinkURL,
		AltText:      b.AltText,
		DisplayOrder: b.DisplayOrder,
		IsActive:     b.IsActive,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (r *Banner) ToDomain() *domain.Banner {
	return &domain.Banner{
		ID:           r.ID,
		ImageURL:     r.ImageURL,
		LinkURL:      r.LinkURL,
		AltText:      r.AltText,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
