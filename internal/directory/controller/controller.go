// Package controller implements the business logic (service layer) of the
// directory: password-gated writes, the company approval workflow and the
// listings served to the public.
package controller

import (
	"context"
	"io"
	"time"

	"github.com/gartstein/partners/internal/directory/db"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
)

// EventProducer publishes lifecycle events. Produce must not block.
type EventProducer interface {
	Produce(eventType events.EventType, key string, data any) error
}

// Notifier delivers inquiry notifications on a best-effort basis.
type Notifier interface {
	NotifyInquiry(ctx context.Context, n models.InquiryNotification) error
}

// Verifier checks caller secrets. An empty record hash means only the master secret is accepted.
type Verifier interface {
	Verify(secret, recordHash string) bool
	IsMaster(secret string) bool
	Hash(secret string) (string, error)
}

// BlobStore stores uploaded files and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// CompanyRepository defines the storage interface for Company objects.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	UpdateCompanyStatus(ctx context.Context, id int64, status models.ApprovalStatus, at time.Time) error
	DeleteCompany(ctx context.Context, id int64) error
	ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int64, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

type BannerRepository interface {
	CreateBanner(ctx context.Context, banner *models.Banner) error
	GetBanner(ctx context.Context, id int64) (*models.Banner, error)
	UpdateBanner(ctx context.Context, banner *models.Banner) error
	DeleteBanner(ctx context.Context, id int64) error
	ListBanners(ctx context.Context, activeOnly bool) ([]*models.Banner, error)
}

type ContentRepository interface {
	CreateContent(ctx context.Context, content *models.Content) error
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	UpdateContent(ctx context.Context, content *models.Content) error
	IncrementContentViews(ctx context.Context, id int64) error
	DeleteContent(ctx context.Context, id int64) error
	ListContents(ctx context.Context, page models.Page) ([]*models.Content, int64, error)
}

type InquiryRepository interface {
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	SetInquiryAnswered(ctx context.Context, id int64, answered bool, at time.Time) error
	DeleteInquiry(ctx context.Context, id int64) error
	ListInquiries(ctx context.Context, filter models.InquiryFilter) ([]*models.Inquiry, int64, error)
	CountUnansweredInquiries(ctx context.Context) (int64, error)
}

// gate applies the dual-secret policy shared by every service.
type gate struct {
	verifier Verifier
}

// authorize accepts the master secret or, when recordHash is set, the record secret.
func (g gate) authorize(secret, recordHash string) error {
	if !g.verifier.Verify(secret, recordHash) {
		return e.ErrInvalidSecret
	}
	return nil
}

// master accepts only the master secret.
func (g gate) master(secret string) error {
	return g.authorize(secret, "")
}

// AccessService answers secret checks that are not tied to a record.
type AccessService struct {
	gate
}

func NewAccessService(verifier Verifier) *AccessService {
	return &AccessService{gate: gate{verifier: verifier}}
}

// VerifyMasterSecret returns ErrInvalidSecret unless secret is the master secret.
func (s *AccessService) VerifyMasterSecret(secret string) error {
	return s.master(secret)
}
