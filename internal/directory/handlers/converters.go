package handlers

import (
	"time"

	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/utils"
)

// secretRequest carries the caller secret in the body.
type secretRequest struct {
	Password       string `json:"password"`
	MasterPassword string `json:"masterPassword"`
}

// companyRequest is the body of company create and update calls. On create,
// Password is the new record secret; on update it authenticates the caller and
// NewPassword rotates the secret.
type companyRequest struct {
	Name              *string   `json:"name"`
	Password          string    `json:"password"`
	MasterPassword    string    `json:"masterPassword"`
	NewPassword       *string   `json:"newPassword"`
	ImageURL          *string   `json:"imageUrl"`
	IntroText         *string   `json:"introText"`
	Price             *string   `json:"price"`
	PrimaryCategory   *[]string `json:"primaryCategory"`
	SecondaryCategory *[]string `json:"secondaryCategory"`
	Tags              *[]string `json:"tags"`
	Phone             *string   `json:"phone"`
	Email             *string   `json:"email"`
	DetailImages      *[]string `json:"detailImages"`
	DetailText        *string   `json:"detailText"`
}

func (req *companyRequest) hasDetail() bool {
	return req.Phone != nil || req.Email != nil || req.DetailImages != nil || req.DetailText != nil
}

func (req *companyRequest) toNewCompany() *models.NewCompany {
	in := &models.NewCompany{
		Name:                utils.Deref(req.Name),
		Password:            req.Password,
		ImageURL:            req.ImageURL,
		IntroText:           utils.Deref(req.IntroText),
		Price:               utils.Deref(req.Price),
		PrimaryCategories:   utils.Deref(req.PrimaryCategory),
		SecondaryCategories: utils.Deref(req.SecondaryCategory),
		Tags:                utils.Deref(req.Tags),
	}
	if req.hasDetail() {
		in.Detail = &models.CompanyDetail{
			Phone:        utils.Deref(req.Phone),
			Email:        utils.Deref(req.Email),
			DetailImages: nonNil(utils.Deref(req.DetailImages)),
			DetailText:   utils.Deref(req.DetailText),
		}
	}
	return in
}

func (req *companyRequest) toUpdate() *models.CompanyUpdate {
	update := &models.CompanyUpdate{
		Name:                req.Name,
		ImageURL:            req.ImageURL,
		IntroText:           req.IntroText,
		Price:               req.Price,
		PrimaryCategories:   req.PrimaryCategory,
		SecondaryCategories: req.SecondaryCategory,
		Tags:                req.Tags,
		Password:            req.NewPassword,
	}
	if req.hasDetail() {
		update.Detail = &models.CompanyDetailUpdate{
			Phone:        req.Phone,
			Email:        req.Email,
			DetailImages: req.DetailImages,
			DetailText:   req.DetailText,
		}
	}
	return update
}

type approvalRequest struct {
	ApprovalStatus models.ApprovalStatus `json:"approvalStatus"`
	MasterPassword string                `json:"masterPassword"`
}

type companyResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ImageURL          *string   `json:"imageUrl"`
	ApprovalStatus    string    `json:"approvalStatus"`
	Price             string    `json:"price"`
	PrimaryCategory   []string  `json:"primaryCategory"`
	SecondaryCategory []string  `json:"secondaryCategory"`
	Tags              []string  `json:"tags"`
	Phone             *string   `json:"phone"`
	Email             *string   `json:"email"`
	DetailImages      []string  `json:"detailImages"`
	DetailText        *string   `json:"detailText"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func fromPublicCompany(c models.PublicCompany) companyResponse {
	return companyResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ImageURL:          c.ImageURL,
		ApprovalStatus:    string(c.ApprovalStatus),
		Price:             c.Price,
		PrimaryCategory:   nonNil(c.PrimaryCategories),
		SecondaryCategory: nonNil(c.SecondaryCategories),
		Tags:              nonNil(c.Tags),
		Phone:             c.Phone,
		Email:             c.Email,
		DetailImages:      nonNil(c.DetailImages),
		DetailText:        c.DetailText,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// fromCompany renders the full record for its owner or the admin. The hash is never included.
func fromCompany(c *models.Company) companyResponse {
	resp := companyResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.IntroText,
		ImageURL:          c.ImageURL,
		ApprovalStatus:    string(c.ApprovalStatus),
		Price:             c.Price,
		PrimaryCategory:   nonNil(c.PrimaryCategories),
		SecondaryCategory: nonNil(c.SecondaryCategories),
		Tags:              nonNil(c.Tags),
		DetailImages:      []string{},
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if d := c.Detail; d != nil {
		resp.Phone = utils.Ptr(d.Phone)
		resp.Email = utils.Ptr(d.Email)
		resp.DetailImages = nonNil(d.DetailImages)
		resp.DetailText = utils.Ptr(d.DetailText)
	}
	return resp
}

type bannerRequest struct {
	MasterPassword string  `json:"masterPassword"`
	ImageURL       *string `json:"imageUrl"`
	LinkURL        *string `json:"linkUrl"`
	AltText        *string `json:"altText"`
	DisplayOrder   *int    `json:"displayOrder"`
	IsActive       *bool   `json:"isActive"`
}

func (req *bannerRequest) toNewBanner() *models.NewBanner {
	return &models.NewBanner{
		ImageURL:     utils.Deref(req.ImageURL),
		LinkURL:      utils.Deref(req.LinkURL),
		AltText:      utils.Deref(req.AltText),
		DisplayOrder: utils.Deref(req.DisplayOrder),
		IsActive:     req.IsActive,
	}
}

func (req *bannerRequest) toUpdate() *models.BannerUpdate {
	return &models.BannerUpdate{
		ImageURL:     req.ImageURL,
		LinkURL:      req.LinkURL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
}

type bannerResponse struct {
	ID           int64     `json:"id"`
	ImageURL     string    `json:"imageUrl"`
	LinkURL      string    `json:"linkUrl"`
	AltText      string    `json:"altText"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func fromBanner(b *models.Banner) bannerResponse {
	return bannerResponse{
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

type contentRequest struct {
	MasterPassword string    `json:"masterPassword"`
	Title          *string   `json:"title"`
	ThumbnailURL   *string   `json:"thumbnailUrl"`
	Content        *string   `json:"content"`
	ImageURLs      *[]string `json:"imageUrls"`
	IsPinned       *bool     `json:"isPinned"`
}

func (req *contentRequest) toNewContent() *models.NewContent {
	return &models.NewContent{
		Title:        utils.Deref(req.Title),
		ThumbnailURL: utils.Deref(req.ThumbnailURL),
		Body:         utils.Deref(req.Content),
		ImageURLs:    utils.Deref(req.ImageURLs),
		IsPinned:     utils.Deref(req.IsPinned),
	}
}

func (req *contentRequest) toUpdate() *models.ContentUpdate {
	return &models.ContentUpdate{
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
		Body:         req.Content,
		ImageURLs:    req.ImageURLs,
		IsPinned:     req.IsPinned,
	}
}

type contentResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Content      string    `json:"content"`
	ImageURLs    []string  `json:"imageUrls"`
	IsPinned     bool      `json:"isPinned"`
	ViewCount    int64     `json:"viewCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func fromContent(c *models.Content) contentResponse {
	return contentResponse{
		ID:           c.ID,
		Title:        c.Title,
		ThumbnailURL: c.ThumbnailURL,
		Content:      c.Body,
		ImageURLs:    nonNil(c.ImageURLs),
		IsPinned:     c.IsPinned,
		ViewCount:    c.ViewCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type contentSummaryResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Excerpt      string    `json:"excerpt"`
	IsPinned     bool      `json:"isPinned"`
	ViewCount    int64     `json:"viewCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func fromContentSummary(c models.ContentSummary) contentSummaryResponse {
	return contentSummaryResponse{
		ID:           c.ID,
		Title:        c.Title,
		ThumbnailURL: c.ThumbnailURL,
		Excerpt:      c.Excerpt,
		IsPinned:     c.IsPinned,
		ViewCount:    c.ViewCount,
		CreatedAt:    c.CreatedAt,
	}
}

// inquiryRequest mirrors companyRequest: Password is the record secret on create
// and the caller secret on update.
type inquiryRequest struct {
	Category       *models.InquiryCategory `json:"category"`
	Content        *string                 `json:"content"`
	Attachments    *[]string               `json:"attachments"`
	Name           *string                 `json:"name"`
	Phone          *string                 `json:"phone"`
	Email          *string                 `json:"email"`
	Password       string                  `json:"password"`
	MasterPassword string                  `json:"masterPassword"`
	NewPassword    *string                 `json:"newPassword"`
}

func (req *inquiryRequest) toNewInquiry() *models.NewInquiry {
	return &models.NewInquiry{
		Category:    utils.Deref(req.Category),
		Content:     utils.Deref(req.Content),
		Attachments: utils.Deref(req.Attachments),
		Name:        utils.Deref(req.Name),
		Phone:       utils.Deref(req.Phone),
		Email:       utils.Deref(req.Email),
		Password:    req.Password,
	}
}

func (req *inquiryRequest) toUpdate() *models.InquiryUpdate {
	return &models.InquiryUpdate{
		Category:    req.Category,
		Content:     req.Content,
		Attachments: req.Attachments,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Password:    req.NewPassword,
	}
}

type answeredRequest struct {
	IsAnswered     bool   `json:"isAnswered"`
	MasterPassword string `json:"masterPassword"`
}

type inquiryResponse struct {
	ID          int64                  `json:"id"`
	Category    models.InquiryCategory `json:"category"`
	Content     string                 `json:"content"`
	Attachments []string               `json:"attachments"`
	Name        string                 `json:"name"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	IsAnswered  bool                   `json:"isAnswered"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func fromInquiry(i *models.Inquiry) inquiryResponse {
	return inquiryResponse{
		ID:          i.ID,
		Category:    i.Category,
		Content:     i.Content,
		Attachments: nonNil(i.Attachments),
		Name:        i.Name,
		Phone:       i.Phone,
		Email:       i.Email,
		IsAnswered:  i.IsAnswered,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// adminInquiryResponse adds the client details recorded at submission.
type adminInquiryResponse struct {
	inquiryResponse
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}

func fromInquiryAdmin(i *models.Inquiry) adminInquiryResponse {
	return adminInquiryResponse{
		inquiryResponse: fromInquiry(i),
		IPAddress:       i.IPAddress,
		UserAgent:       i.UserAgent,
	}
}

type inquirySummaryResponse struct {
	ID         int64                  `json:"id"`
	Category   models.InquiryCategory `json:"category"`
	Name       string                 `json:"name"`
	IsAnswered bool                   `json:"isAnswered"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func fromInquirySummary(i models.InquirySummary) inquirySummaryResponse {
	return inquirySummaryResponse{
		ID:         i.ID,
		Category:   i.Category,
		Name:       i.Name,
		IsAnswered: i.IsAnswered,
		CreatedAt:  i.CreatedAt,
	}
}

func mapSlice[S, T any](items []S, fn func(S) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func mapPage[S, T any](p *models.Paginated[S], fn func(S) T) models.Paginated[T] {
	return models.Paginated[T]{
		Items:      mapSlice(p.Items, fn),
		Pagination: p.Pagination,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
