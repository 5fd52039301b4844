package models

import "time"

// Content is an article published by the administrator.
type Content struct {
	ID           int64
	Title        string
	ThumbnailURL string
	Body         string
	ImageURLs    []string
	IsPinned     bool
	ViewCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContentSummary is the list form of Content.
type ContentSummary struct {
	ID           int64
	Title        string
	ThumbnailURL string
	Excerpt      string
	IsPinned     bool
	ViewCount    int64
	CreatedAt    time.Time
}

type NewContent struct {
	Title        string
	ThumbnailURL string
	Body         string
	ImageURLs    []string
	IsPinned     bool
}

type ContentUpdate struct {
	Title        *string
	ThumbnailURL *string
	Body         *string
	ImageURLs    *[]string
	IsPinned     *bool
}
