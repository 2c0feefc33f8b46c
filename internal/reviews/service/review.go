package service

import (
	"context"
	"time"

	"smartparking/internal/reviews/repository"
	"smartparking/internal/reviews/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/model"
	"smartparking/pkg/sanitizer"

	"github.com/google/uuid"
)

type SiteSource interface {
	GetSite(ctx context.Context, siteID string) (*model.Site, error)
}

// ReviewService stores user reviews of a site. A user may review the same site
// more than once and reviews leave the site's catalog rating untouched.
type ReviewService interface {
	Add(ctx context.Context, userID, siteID string, req *model.ReviewRequest) (*model.Review, error)
	ListBySite(ctx context.Context, siteID string) ([]*model.Review, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	sites     SiteSource
	validator *validator.ReviewValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewReviewService(repo repository.ReviewRepository, sites SiteSource, validator *validator.ReviewValidator, cfg *config.Config) ReviewService {
	return &reviewService{
		repo:      repo,
		sites:     sites,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *reviewService) Add(ctx context.Context, userID, siteID string, req *model.ReviewRequest) (*model.Review, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	if req == nil {
		return nil, apperrors.InvalidInput("Review request is required")
	}
	req.Comment = sanitizer.SanitizeText(req.Comment)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Review validation failed", "user_id", userID, "site_id", siteID, "error", err)
		return nil, apperrors.InvalidInput("Review validation failed").WithDetails(map[string]any{"error": err.Error()})
	}
	if _, err := s.sites.GetSite(ctx, siteID); err != nil {
		return nil, err
	}

	review := &model.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		SiteID:    siteID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: model.StoredTime(s.now()),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		s.cfg.Log.Error("Failed to add review", "user_id", userID, "site_id", siteID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to add review")
	}
	s.cfg.Log.Info("Review added", "user_id", userID, "site_id", siteID, "rating", review.Rating)
	return review, nil
}

func (s *reviewService) ListBySite(ctx context.Context, siteID string) ([]*model.Review, error) {
	if siteID == "" {
		return nil, apperrors.InvalidInput("Site ID cannot be empty")
	}
	if _, err := s.sites.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.FindBySite(ctx, siteID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "site_id", siteID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to list reviews")
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return reviews, nil
}
