package service

import (
	"context"
	"errors"
	"time"

	favoriteerrors "smartparking/internal/favorites/errors"
	"smartparking/internal/favorites/repository"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/events"
	"smartparking/pkg/model"
)

type SiteSource interface {
	GetSite(ctx context.Context, siteID string) (*model.Site, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID, siteID string) error
	Remove(ctx context.Context, userID, siteID string) error
	List(ctx context.Context, userID string) ([]*model.Favorite, error)
}

type favoriteService struct {
	repo      repository.FavoriteRepository
	sites     SiteSource
	publisher events.Publisher
	cfg       *config.Config
}

func NewFavoriteService(repo repository.FavoriteRepository, sites SiteSource, publisher events.Publisher, cfg *config.Config) FavoriteService {
	return &favoriteService{
		repo:      repo,
		sites:     sites,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *favoriteService) Add(ctx context.Context, userID, siteID string) error {
	if userID == "" {
		return apperrors.Unauthenticated("Authentication required")
	}
	if _, err := s.sites.GetSite(ctx, siteID); err != nil {
		return err
	}

	created, err := s.repo.Add(ctx, userID, siteID, time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		s.cfg.Log.Error("Failed to add favorite", "user_id", userID, "site_id", siteID, "error", err)
		return apperrors.FromStorage(err, "Failed to add favorite")
	}
	if created {
		s.changed(ctx, userID, siteID, true)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, siteID string) error {
	if userID == "" {
		return apperrors.Unauthenticated("Authentication required")
	}
	if siteID == "" {
		return apperrors.InvalidInput("Site ID cannot be empty")
	}

	if err := s.repo.Remove(ctx, userID, siteID); err != nil {
		if errors.Is(err, favoriteerrors.ErrFavoriteNotFound) {
			return apperrors.NotFoundWithID("Favorite", siteID)
		}
		s.cfg.Log.Error("Failed to remove favorite", "user_id", userID, "site_id", siteID, "error", err)
		return apperrors.FromStorage(err, "Failed to remove favorite")
	}
	s.changed(ctx, userID, siteID, false)
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]*model.Favorite, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	favorites, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list favorites", "user_id", userID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to list favorites")
	}
	if favorites == nil {
		favorites = []*model.Favorite{}
	}
	return favorites, nil
}

func (s *favoriteService) changed(ctx context.Context, userID, siteID string, added bool) {
	s.cfg.Log.Info("Favorites changed", "user_id", userID, "site_id", siteID, "added", added)
	s.publisher.Publish(ctx, events.New(events.FavoritesChanged, events.FavoritesPayload{
		UserID: userID,
		SiteID: siteID,
		Added:  added,
	}))
}
