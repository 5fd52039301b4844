package models

import (
	"time"

	domain "github.com/gartstein/partners/internal/directory/models"
)

type Content struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"size:200;not null"`
	ThumbnailURL string    `gorm:"size:2048"`
	Body         string    `gorm:"type:text;not null"`
	ImageURLs    []string  `gorm:"serializer:json;type:text"`
	IsPinned     bool      `gorm:"not null;index"`
	ViewCount    int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (Content) TableName() string { return "t_contents" }

func FromContent(c *domain.Content) *Content {
	return &Content{
		ID:           c.ID,
		Title:        c.Title,
		ThumbnailURL: c.ThumbnailURL,
		Body:         c.Body,
		ImageURLs:    c.ImageURLs,
		IsPinned:     c.IsPinned,
		ViewCount:    c.ViewCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *Content) ToDomain() *domain.Content {
	images := r.ImageURLs
	if images == nil {
		images = []string{}
	}
	return &domain.Content{
		ID:           r.ID,
		Title:        r.Title,
		ThumbnailURL: r.ThumbnailURL,
		Body:         r.Body,
		ImageURLs:    images,
		IsPinned:     r.IsPinned,
		ViewCount:    r.ViewCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
