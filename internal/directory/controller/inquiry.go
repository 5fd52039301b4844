package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/clock"
	"go.uber.org/zap"
)

// InquiryService handles visitor inquiries. Reading, editing and deleting an
// inquiry needs its own secret or the master secret.
type InquiryService struct {
	gate
	repo     InquiryRepository
	notifier Notifier
	producer EventProducer
	clock    clock.Clock
	logger   *zap.Logger
}

func NewInquiryService(
	repo InquiryRepository,
	verifier Verifier,
	notifier Notifier,
	producer EventProducer,
	clk clock.Clock,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		gate:     gate{verifier: verifier},
		repo:     repo,
		notifier: notifier,
		producer: producer,
		clock:    clk,
		logger:   logger.Named("inquiry_service"),
	}
}

// CreateInquiry stores the inquiry with the caller's client info and notifies
// the administrators. A failed notification is logged and does not fail the call.
func (s *InquiryService) CreateInquiry(ctx context.Context, in *models.NewInquiry, client models.ClientInfo) (*models.Inquiry, error) {
	if in == nil {
		return nil, e.Invalid("inquiry is required")
	}
	if err := validateInquiry(in.Category, in.Content, in.Attachments, in.Name, in.Phone, in.Email); err != nil {
		return nil, err
	}
	if err := checkSecret("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	inquiry := &models.Inquiry{
		Category:     in.Category,
		Content:      in.Content,
		Attachments:  nonNilStrings(in.Attachments),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateInquiry(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	if err := s.notifier.NotifyInquiry(ctx, inquiry.Notification()); err != nil {
		s.logger.Error("Failed to notify inquiry",
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err),
		)
	}
	return inquiry, nil
}

// ListInquiries is the public board: summaries with the author name masked.
func (s *InquiryService) ListInquiries(ctx context.Context, filter models.InquiryFilter) (*models.Paginated[models.InquirySummary], error) {
	inquiries, page, total, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]models.InquirySummary, 0, len(inquiries))
	for _, i := range inquiries {
		items = append(items, models.InquirySummary{
			ID:         i.ID,
			Category:   i.Category,
			Name:       maskName(i.Name),
			IsAnswered: i.IsAnswered,
			CreatedAt:  i.CreatedAt,
		})
	}
	return &models.Paginated[models.InquirySummary]{
		Items:      items,
		Pagination: models.NewPagination(page, total),
	}, nil
}

// ListInquiriesAdmin returns full records including client info.
func (s *InquiryService) ListInquiriesAdmin(ctx context.Context, filter models.InquiryFilter, secret string) (*models.Paginated[*models.Inquiry], error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	inquiries, page, total, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Paginated[*models.Inquiry]{
		Items:      inquiries,
		Pagination: models.NewPagination(page, total),
	}, nil
}

func (s *InquiryService) GetInquiry(ctx context.Context, id int64, secret string) (*models.Inquiry, error) {
	inquiry, err := s.getInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(secret, inquiry.PasswordHash); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *InquiryService) UpdateInquiry(ctx context.Context, id int64, update *models.InquiryUpdate, secret string) (*models.Inquiry, error) {
	if update == nil {
		return nil, e.Invalid("update is required")
	}
	if update.Password != nil {
		if err := checkSecret("password", *update.Password); err != nil {
			return nil, err
		}
	}
	inquiry, err := s.getInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(secret, inquiry.PasswordHash); err != nil {
		return nil, err
	}

	if update.Category != nil {
		inquiry.Category = *update.Category
	}
	if update.Content != nil {
		inquiry.Content = *update.Content
	}
	if update.Attachments != nil {
		inquiry.Attachments = nonNilStrings(*update.Attachments)
	}
	if update.Name != nil {
		inquiry.Name = *update.Name
	}
	if update.Phone != nil {
		inquiry.Phone = *update.Phone
	}
	if update.Email != nil {
		inquiry.Email = *update.Email
	}
	if err := validateInquiry(inquiry.Category, inquiry.Content, inquiry.Attachments, inquiry.Name, inquiry.Phone, inquiry.Email); err != nil {
		return nil, err
	}
	if update.Password != nil {
		hash, err := s.verifier.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		inquiry.PasswordHash = hash
	}
	inquiry.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateInquiry(ctx, inquiry); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}
	s.publish(events.InquiryUpdated, inquiry)
	return inquiry, nil
}

func (s *InquiryService) DeleteInquiry(ctx context.Context, id int64, secret string) error {
	inquiry, err := s.getInquiry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(secret, inquiry.PasswordHash); err != nil {
		return err
	}
	if err := s.repo.DeleteInquiry(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	s.publish(events.InquiryDeleted, inquiry)
	return nil
}

// UpdateAnsweredStatus marks an inquiry answered or open again. Master only.
func (s *InquiryService) UpdateAnsweredStatus(ctx context.Context, id int64, answered bool, secret string) (*models.Inquiry, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	inquiry, err := s.getInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if inquiry.IsAnswered == answered {
		return inquiry, nil
	}

	now := s.clock.Now()
	if err := s.repo.SetInquiryAnswered(ctx, id, answered, now); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update answered status: %w", err)
	}
	inquiry.IsAnswered = answered
	inquiry.UpdatedAt = now
	s.publish(events.InquiryUpdated, inquiry)
	return inquiry, nil
}

func (s *InquiryService) CountUnanswered(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUnansweredInquiries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return n, nil
}

func (s *InquiryService) list(ctx context.Context, filter models.InquiryFilter) ([]*models.Inquiry, models.Page, int64, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, models.Page{}, 0, e.Invalid("category must be one of purchase, partnership, other")
	}
	filter.Page = filter.Page.Normalize()
	inquiries, total, err := s.repo.ListInquiries(ctx, filter)
	if err != nil {
		return nil, models.Page{}, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, filter.Page, total, nil
}

func (s *InquiryService) getInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	if id <= 0 {
		return nil, e.ErrNotFound
	}
	inquiry, err := s.repo.GetInquiry(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *InquiryService) publish(eventType events.EventType, inquiry *models.Inquiry) {
	_ = s.producer.Produce(eventType, strconv.FormatInt(inquiry.ID, 10), events.EntityRef{
		ID:   inquiry.ID,
		Name: string(inquiry.Category),
	})
}

func validateInquiry(category models.InquiryCategory, content string, attachments []string, name, phone, email string) error {
	if !category.Valid() {
		return e.Invalid("category must be one of purchase, partnership, other")
	}
	if err := checkLength("content", content, 10, 2000); err != nil {
		return err
	}
	if err := checkURLs("attachments", attachments, maxAttachments); err != nil {
		return err
	}
	if err := checkLength("name", name, 2, 50); err != nil {
		return err
	}
	if err := checkPhone("phone", phone, true); err != nil {
		return err
	}
	return checkEmail("email", email)
}

// maskName keeps the first rune and stars out the rest.
func maskName(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return ""
	}
	n := len(runes) - 1
	if n < 1 {
		n = 1
	}
	return string(runes[0]) + strings.Repeat("*", n)
}
