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

// BannerService manages the home page carousel. Every write needs the master secret.
type BannerService struct {
	gate
	repo     BannerRepository
	producer EventProducer
	clock    clock.Clock
	logger   *zap.Logger
}

func NewBannerService(
	repo BannerRepository,
	verifier Verifier,
	producer EventProducer,
	clk clock.Clock,
	logger *zap.Logger,
) *BannerService {
	return &BannerService{
		gate:     gate{verifier: verifier},
		repo:     repo,
		producer: producer,
		clock:    clk,
		logger:   logger.Named("banner_service"),
	}
}

// ListActiveBanners returns active banners by display order.
func (s *BannerService) ListActiveBanners(ctx context.Context) ([]*models.Banner, error) {
	banners, err := s.repo.ListBanners(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

// ListAllBanners includes inactive banners.
func (s *BannerService) ListAllBanners(ctx context.Context, secret string) ([]*models.Banner, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	banners, err := s.repo.ListBanners(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

func (s *BannerService) CreateBanner(ctx context.Context, in *models.NewBanner, secret string) (*models.Banner, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, e.Invalid("banner is required")
	}
	if err := validateBanner(in.ImageURL, in.LinkURL, in.AltText, in.DisplayOrder); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	banner := &models.Banner{
		ImageURL:     in.ImageURL,
		LinkURL:      in.LinkURL,
		AltText:      in.AltText,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateBanner(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	s.publish(events.BannerCreated, banner)
	return banner, nil
}

func (s *BannerService) UpdateBanner(ctx context.Context, id int64, update *models.BannerUpdate, secret string) (*models.Banner, error) {
	if err := s.master(secret); err != nil {
		return nil, err
	}
	if update == nil {
		return nil, e.Invalid("update is required")
	}
	banner, err := s.getBanner(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ImageURL != nil {
		banner.ImageURL = *update.ImageURL
	}
	if update.LinkURL != nil {
		banner.LinkURL = *update.LinkURL
	}
	if update.AltText != nil {
		banner.AltText = *update.AltText
	}
	if update.DisplayOrder != nil {
		banner.DisplayOrder = *update.DisplayOrder
	}
	if update.IsActive != nil {
		banner.IsActive = *update.IsActive
	}
	if err := validateBanner(banner.ImageURL, banner.LinkURL, banner.AltText, banner.DisplayOrder); err != nil {
		return nil, err
	}
	banner.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateBanner(ctx, banner); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update banner: %w", err)
	}
	s.publish(events.BannerUpdated, banner)
	return banner, nil
}

func (s *BannerService) DeleteBanner(ctx context.Context, id int64, secret string) error {
	if err := s.master(secret); err != nil {
		return err
	}
	banner, err := s.getBanner(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	s.publish(events.BannerDeleted, banner)
	return nil
}

func (s *BannerService) getBanner(ctx context.Context, id int64) (*models.Banner, error) {
	if id <= 0 {
		return nil, e.ErrNotFound
	}
	banner, err := s.repo.GetBanner(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) publish(eventType events.EventType, banner *models.Banner) {
	_ = s.producer.Produce(eventType, strconv.FormatInt(banner.ID, 10), events.EntityRef{
		ID:   banner.ID,
		Name: banner.AltText,
	})
}

func validateBanner(imageURL, linkURL, altText string, displayOrder int) error {
	if err := checkURL("imageUrl", imageURL, true); err != nil {
		return err
	}
	if err := checkURL("linkUrl", linkURL, false); err != nil {
		return err
	}
	if err := checkMaxLength("altText", altText, 200); err != nil {
		return err
	}
	if displayOrder < 0 {
		return e.Invalid("displayOrder must not be negative")
	}
	return nil
}
