package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/clock"
	"go.uber.org/zap"
)

// ContentService manages admin-published articles.
type ContentService struct {
	gate
	repo     ContentRepository
	producer EventProducer
	clock    clock.Clock
	logger   *zap.Logger
}

func NewContentService(
	repo ContentRepository,
	verifier Verifier,
	producer EventProducer,
	clk clock.Clock,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		gate:     gate{verifier: verifier},
		repo:     repo,
		producer: producer,
		clock:    clk,
		logger:   logger.Named("content_service"),
	}
}

// ListContents returns summaries, pinned contents first and then newest first.
func (s *ContentService) ListContents(ctx context.Context, page models.Page) (*models.Paginated[models.ContentSummary], error) {
	page = page.Normalize()
	contents, total, err := s.repo.ListContents(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}

	items := make([]models.ContentSummary, 0, len(contents))
	for _, c := range contents {
		items = append(items, models.ContentSummary{
			ID:           c.ID,
			Title:        c.Title,
			ThumbnailURL: c.ThumbnailURL,
			Excerpt:      excerpt(c.Body),
			IsPinned:     c.IsPinned,
			ViewCount:    c.ViewCount,
			CreatedAt:    c.CreatedAt,
		})
	}
	return &models.Paginated[models.ContentSummary]{
		Items:      items,
		Pagination: models.NewPagination(page, total),
	}, nil
}

// GetContent returns the content and counts the view.
func (s *ContentService) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	content, err := s.getContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementContentViews(ctx, id); err != nil {
		s.logger.Warn("Failed to increment view count", zap.Int64("content_id", id), zap.Error(err))
		return content, nil
	}
	content.ViewCount++
	return content, nil
}

func (s *ContentService) CreateContent(ctx context.Context, in *models.NewContent, secret string) (*models.Content, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, e.Invalid("content is required")
	}
	if err := validateContent(in.Title, in.ThumbnailURL, in.Body, in.ImageURLs); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	content := &models.Content{
		Title:        in.Title,
		ThumbnailURL: in.ThumbnailURL,
		Body:         in.Body,
		ImageURLs:    nonNilStrings(in.ImageURLs),
		IsPinned:     in.IsPinned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	s.publish(events.ContentCreated, content)
	return content, nil
}

func (s *ContentService) UpdateContent(ctx context.Context, id int64, update *models.ContentUpdate, secret string) (*models.Content, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	if update == nil {
		return nil, e.Invalid("update is required")
	}
	content, err := s.getContent(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		content.Title = *update.Title
	}
	if update.ThumbnailURL != nil {
		content.ThumbnailURL = *update.ThumbnailURL
	}
	if update.Body != nil {
		content.Body = *update.Body
	}
	if update.ImageURLs != nil {
		content.ImageURLs = nonNilStrings(*update.ImageURLs)
	}
	if update.IsPinned != nil {
		content.IsPinned = *update.IsPinned
	}
	if err := validateContent(content.Title, content.ThumbnailURL, content.Body, content.ImageURLs); err != nil {
		return nil, err
	}
	content.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateContent(ctx, content); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update content: %w", err)
	}
	s.publish(events.ContentUpdated, content)
	return content, nil
}

func (s *ContentService) DeleteContent(ctx context.Context, id int64, secret string) error {
	if err := s.master(secret); err != nil {
		return err
	}
	content, err := s.getContent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteContent(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}
	s.publish(events.ContentDeleted, content)
	return nil
}

func (s *ContentService) getContent(ctx context.Context, id int64) (*models.Content, error) {
	if id <= 0 {
		return nil, e.ErrNotFound
	}
	content, err := s.repo.GetContent(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return content, nil
}

func (s *ContentService) publish(eventType events.EventType, content *models.Content) {
	_ = s.producer.Produce(eventType, strconv.FormatInt(content.ID, 10), events.EntityRef{
		ID:   content.ID,
		Name: content.Title,
	})
}

func validateContent(title, thumbnailURL, body string, imageURLs []string) error {
	if err := checkLength("title", title, 2, 200); err != nil {
		return err
	}
	if err := checkURL("thumbnailUrl", thumbnailURL, false); err != nil {
		return err
	}
	if err := checkMinLength("content", body, 10); err != nil {
		return err
	}
	return checkURLs("imageUrls", imageURLs, maxURLs)
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
