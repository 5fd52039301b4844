package models

import "time"

// Banner is a home page carousel entry. Banners have no record secret.
type Banner struct {
	ID           int64
	ImageURL     string
	LinkURL      string
	AltText      string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBanner carries the caller input for banner creation. IsActive defaults to true when nil.
type NewBanner struct {
	ImageURL     string
	LinkURL      string
	AltText      string
	DisplayOrder int
	IsActive     *bool
}

// BannerUpdate is a partial banner update.
type BannerUpdate struct {
	ImageURL     *string
	LinkURL      *string
	AltText      *string
	DisplayOrder *int
	IsActive     *bool
}
