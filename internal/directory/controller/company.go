package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gartstein/partners/internal/directory/approval"
	"github.com/gartstein/partners/internal/directory/db"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/clock"
	"go.uber.org/zap"
)

// CompanyService manages partner companies: creation in the pending state,
// owner or admin edits, the admin approval workflow and masked public listings.
type CompanyService struct {
	gate
	repo     CompanyRepository
	producer EventProducer
	clock    clock.Clock
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(
	repo CompanyRepository,
	verifier Verifier,
	producer EventProducer,
	clk clock.Clock,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		gate:     gate{verifier: verifier},
		repo:     repo,
		producer: producer,
		clock:    clk,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany validates the input, hashes the record secret and stores the company
// with its labels and detail in one transaction. New companies are always pending.
func (s *CompanyService) CreateCompany(ctx context.Context, in *models.NewCompany) (*models.Company, error) {
	if in == nil {
		return nil, e.Invalid("company is required")
	}
	if err := validateNewCompany(in); err != nil {
		return nil, err
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	company := &models.Company{
		Name:                in.Name,
		PasswordHash:        hash,
		ApprovalStatus:      models.StatusPending,
		ImageURL:            nonEmpty(in.ImageURL),
		IntroText:           in.IntroText,
		Price:               in.Price,
		PrimaryCategories:   dedupe(in.PrimaryCategories),
		SecondaryCategories: dedupe(in.SecondaryCategories),
		Tags:                dedupe(in.Tags),
		Detail:              in.Detail,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.CreateCompany(ctx, company)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.publish(events.CompanyCreated, company)
	return company, nil
}

// ListCompanies returns the public listing. Every entry goes through approval.Mask.
// Searches and label filters only consider approved companies.
func (s *CompanyService) ListCompanies(ctx context.Context, filter models.CompanyFilter) (*models.Paginated[models.PublicCompany], error) {
	filter.Page = filter.Page.Normalize()
	filter.Status = ""
	if filter.HasCriteria() {
		filter.Status = models.StatusApproved
	}

	companies, total, err := s.repo.ListCompanies(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return &models.Paginated[models.PublicCompany]{
		Items:      approval.MaskAll(companies),
		Pagination: models.NewPagination(filter.Page, total),
	}, nil
}

// ListPendingCompanies lists pending companies for the admin queue. Entries stay masked;
// the real id is enough to approve or reject.
func (s *CompanyService) ListPendingCompanies(ctx context.Context, page models.Page, secret string) (*models.Paginated[models.PublicCompany], error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	page = page.Normalize()
	companies, total, err := s.repo.ListCompanies(ctx, models.CompanyFilter{Status: models.StatusPending, Page: page})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending companies: %w", err)
	}
	return &models.Paginated[models.PublicCompany]{
		Items:      approval.MaskAll(companies),
		Pagination: models.NewPagination(page, total),
	}, nil
}

// ListAllCompanies is the unmasked admin listing.
func (s *CompanyService) ListAllCompanies(ctx context.Context, filter models.CompanyFilter, secret string) (*models.Paginated[*models.Company], error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, e.Invalid("approval status must be one of pending, approved, rejected")
	}
	filter.Page = filter.Page.Normalize()
	companies, total, err := s.repo.ListCompanies(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return &models.Paginated[*models.Company]{
		Items:      companies,
		Pagination: models.NewPagination(filter.Page, total),
	}, nil
}

// GetCompany is the public lookup. Companies that are not approved are reported as not found.
func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.PublicCompany, error) {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.IsApproved() {
		return nil, e.ErrNotFound
	}
	view := approval.Mask(company)
	return &view, nil
}

// GetCompanyPrivate returns the full record to its owner or the admin, whatever its status.
func (s *CompanyService) GetCompanyPrivate(ctx context.Context, id int64, secret string) (*models.Company, error) {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(secret, company.PasswordHash); err != nil {
		return nil, err
	}
	return company, nil
}

// VerifyCompanySecret reports whether secret would be accepted for writes on the company.
func (s *CompanyService) VerifyCompanySecret(ctx context.Context, id int64, secret string) (bool, error) {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return false, err
	}
	return s.verifier.Verify(secret, company.PasswordHash), nil
}

// UpdateCompany applies the fields present in update after checking the record or master secret.
func (s *CompanyService) UpdateCompany(ctx context.Context, id int64, update *models.CompanyUpdate, secret string) (*models.Company, error) {
	if update == nil {
		return nil, e.Invalid("update is required")
	}
	if err := validateCompanyUpdate(update); err != nil {
		return nil, err
	}

	company, err := s.getCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(secret, company.PasswordHash); err != nil {
		return nil, err
	}

	if update.Password != nil {
		hash, err := s.verifier.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		company.PasswordHash = hash
	}
	applyCompanyUpdate(company, update)
	company.UpdatedAt = s.clock.Now()

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateCompany(ctx, company)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.publish(events.CompanyUpdated, company)
	return company, nil
}

// DeleteCompany permanently removes the company and its detail.
func (s *CompanyService) DeleteCompany(ctx context.Context, id int64, secret string) error {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(secret, company.PasswordHash); err != nil {
		return err
	}
	return s.deleteCompany(ctx, company)
}

// UpdateApprovalStatus moves a company to status. Only the master secret is accepted.
// Requesting the current status changes nothing and publishes nothing.
func (s *CompanyService) UpdateApprovalStatus(ctx context.Context, id int64, status models.ApprovalStatus, secret string) (*models.Company, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := approval.Transition(company.ApprovalStatus, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return company, nil
	}

	now := s.clock.Now()
	if err := s.repo.UpdateCompanyStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update approval status: %w", err)
	}

	s.logger.Info("Company approval status changed",
		zap.Int64("company_id", id),
		zap.String("from", string(company.ApprovalStatus)),
		zap.String("to", string(status)),
	)
	company.ApprovalStatus = status
	company.UpdatedAt = now
	s.publish(events.CompanyStatusChanged, company)
	return company, nil
}

// Approve flips the company to approved, making it visible in public listings.
func (s *CompanyService) Approve(ctx context.Context, id int64, secret string) (*models.Company, error) {
	return s.UpdateApprovalStatus(ctx, id, models.StatusApproved, secret)
}

// Reject flips the company to rejected and keeps the record.
func (s *CompanyService) Reject(ctx context.Context, id int64, secret string) (*models.Company, error) {
	return s.UpdateApprovalStatus(ctx, id, models.StatusRejected, secret)
}

// RejectAndDelete is the destructive form of rejection: the record is removed.
func (s *CompanyService) RejectAndDelete(ctx context.Context, id int64, secret string) error {
	if err := s.master(secret); err != nil {
		return err
	}
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("Rejecting and deleting company", zap.Int64("company_id", id))
	return s.deleteCompany(ctx, company)
}

func (s *CompanyService) deleteCompany(ctx context.Context, company *models.Company) error {
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteCompany(ctx, company.ID)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}
	s.publish(events.CompanyDeleted, company)
	return nil
}

func (s *CompanyService) getCompany(ctx context.Context, id int64) (*models.Company, error) {
	if id <= 0 {
		return nil, e.ErrNotFound
	}
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) publish(eventType events.EventType, company *models.Company) {
	_ = s.producer.Produce(eventType, strconv.FormatInt(company.ID, 10), events.EntityRef{
		ID:     company.ID,
		Name:   company.Name,
		Status: string(company.ApprovalStatus),
	})
}

func validateNewCompany(in *models.NewCompany) error {
	if err := checkLength("name", in.Name, 2, 100); err != nil {
		return err
	}
	if err := checkSecret("password", in.Password); err != nil {
		return err
	}
	if in.ImageURL != nil {
		if err := checkURL("imageUrl", *in.ImageURL, false); err != nil {
			return err
		}
	}
	if err := checkMaxLength("introText", in.IntroText, 2000); err != nil {
		return err
	}
	if err := checkMaxLength("price", in.Price, 100); err != nil {
		return err
	}
	if err := checkSubset("primaryCategory", in.PrimaryCategories, models.PrimaryCategories, 1); err != nil {
		return err
	}
	if err := checkSubset("secondaryCategory", in.SecondaryCategories, models.SecondaryCategories, 1); err != nil {
		return err
	}
	if err := checkTags(in.Tags); err != nil {
		return err
	}
	if in.Detail != nil {
		return validateDetail(in.Detail)
	}
	return nil
}

func validateDetail(d *models.CompanyDetail) error {
	if err := checkPhone("phone", d.Phone, false); err != nil {
		return err
	}
	if err := checkEmail("email", d.Email); err != nil {
		return err
	}
	if err := checkURLs("detailImages", d.DetailImages, maxURLs); err != nil {
		return err
	}
	return checkMaxLength("detailText", d.DetailText, 10000)
}

func validateCompanyUpdate(u *models.CompanyUpdate) error {
	if u.Name != nil {
		if err := checkLength("name", *u.Name, 2, 100); err != nil {
			return err
		}
	}
	if u.Password != nil {
		if err := checkSecret("password", *u.Password); err != nil {
			return err
		}
	}
	if u.ImageURL != nil {
		if err := checkURL("imageUrl", *u.ImageURL, false); err != nil {
			return err
		}
	}
	if u.IntroText != nil {
		if err := checkMaxLength("introText", *u.IntroText, 2000); err != nil {
			return err
		}
	}
	if u.Price != nil {
		if err := checkMaxLength("price", *u.Price, 100); err != nil {
			return err
		}
	}
	if u.PrimaryCategories != nil {
		if err := checkSubset("primaryCategory", *u.PrimaryCategories, models.PrimaryCategories, 1); err != nil {
			return err
		}
	}
	if u.SecondaryCategories != nil {
		if err := checkSubset("secondaryCategory", *u.SecondaryCategories, models.SecondaryCategories, 1); err != nil {
			return err
		}
	}
	if u.Tags != nil {
		if err := checkTags(*u.Tags); err != nil {
			return err
		}
	}
	if d := u.Detail; d != nil {
		if d.Phone != nil {
			if err := checkPhone("phone", *d.Phone, false); err != nil {
				return err
			}
		}
		if d.Email != nil {
			if err := checkEmail("email", *d.Email); err != nil {
				return err
			}
		}
		if d.DetailImages != nil {
			if err := checkURLs("detailImages", *d.DetailImages, maxURLs); err != nil {
				return err
			}
		}
		if d.DetailText != nil {
			if err := checkMaxLength("detailText", *d.DetailText, 10000); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyCompanyUpdate(c *models.Company, u *models.CompanyUpdate) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.ImageURL != nil {
		c.ImageURL = nonEmpty(u.ImageURL)
	}
	if u.IntroText != nil {
		c.IntroText = *u.IntroText
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.PrimaryCategories != nil {
		c.PrimaryCategories = dedupe(*u.PrimaryCategories)
	}
	if u.SecondaryCategories != nil {
		c.SecondaryCategories = dedupe(*u.SecondaryCategories)
	}
	if u.Tags != nil {
		c.Tags = dedupe(*u.Tags)
	}
	if d := u.Detail; d != nil {
		if c.Detail == nil {
			c.Detail = &models.CompanyDetail{DetailImages: []string{}}
		}
		if d.Phone != nil {
			c.Detail.Phone = *d.Phone
		}
		if d.Email != nil {
			c.Detail.Email = *d.Email
		}
		if d.DetailImages != nil {
			c.Detail.DetailImages = *d.DetailImages
		}
		if d.DetailText != nil {
			c.Detail.DetailText = *d.DetailText
		}
	}
}

// nonEmpty maps an empty optional string to nil.
func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}
