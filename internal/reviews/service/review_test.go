package service

import (
	"context"
	"errors"
	"testing"

	"smartparking/internal/reviews/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReviews struct {
	stored []*model.Review
	err    error
}

func (m *memoryReviews) Create(ctx context.Context, review *model.Review) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, review)
	return nil
}

func (m *memoryReviews) FindBySite(ctx context.Context, siteID string) ([]*model.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Review
	for _, r := range m.stored {
		if r.SiteID == siteID {
			out = append(out, r)
		}
	}
	return out, nil
}

type knownSites struct{}

func (knownSites) GetSite(ctx context.Context, siteID string) (*model.Site, error) {
	if siteID == "TATU" || siteID == "URDU" {
		return &model.Site{ID: siteID}, nil
	}
	return nil, apperrors.NotFoundWithID("Site", siteID)
}

func newService(repo *memoryReviews) ReviewService {
	log := logger.Discard()
	return NewReviewService(repo, knownSites{}, validator.NewReviewValidator(log), &config.Config{Log: log})
}

func TestAdd(t *testing.T) {
	repo := &memoryReviews{}
	svc := newService(repo)

	review, err := svc.Add(context.Background(), "u1", "TATU", &model.ReviewRequest{Rating: 4.5, Comment: "  wide\n\tslots "})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "u1", review.UserID)
	assert.Equal(t, "TATU", review.SiteID)
	assert.Equal(t, 4.5, review.Rating)
	assert.Equal(t, "wide slots", review.Comment)
	assert.False(t, review.CreatedAt.IsZero())
	assert.Len(t, repo.stored, 1)
}

func TestAdd_SameUserMayReviewAgain(t *testing.T) {
	repo := &memoryReviews{}
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", "TATU", &model.ReviewRequest{Rating: 2})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", "TATU", &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)

	reviews, err := svc.ListBySite(ctx, "TATU")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestAdd_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		siteID string
		req    *model.ReviewRequest
		code   string
	}{
		{"anonymous", "", "TATU", &model.ReviewRequest{Rating: 3}, apperrors.CodeUnauthenticated},
		{"missing body", "u1", "TATU", nil, apperrors.CodeInvalidInput},
		{"rating too high", "u1", "TATU", &model.ReviewRequest{Rating: 5.5}, apperrors.CodeInvalidInput},
		{"rating missing", "u1", "TATU", &model.ReviewRequest{Comment: "fine"}, apperrors.CodeInvalidInput},
		{"unknown site", "u1", "NOPE", &model.ReviewRequest{Rating: 3}, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryReviews{}
			_, err := newService(repo).Add(context.Background(), tt.user, tt.siteID, tt.req)
			assert.Equal(t, tt.code, apperrors.KindOf(err))
			assert.Empty(t, repo.stored)
		})
	}
}

func TestListBySite(t *testing.T) {
	repo := &memoryReviews{stored: []*model.Review{
		{ID: "a", SiteID: "TATU", Rating: 4},
		{ID: "b", SiteID: "URDU", Rating: 1},
	}}
	svc := newService(repo)

	reviews, err := svc.ListBySite(context.Background(), "TATU")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "a", reviews[0].ID)

	urdu, err := svc.ListBySite(context.Background(), "URDU")
	require.NoError(t, err)
	assert.Len(t, urdu, 1)

	_, err = svc.ListBySite(context.Background(), "NOPE")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(err))
}

func TestListBySite_EmptyIsNotNil(t *testing.T) {
	reviews, err := newService(&memoryReviews{}).ListBySite(context.Background(), "TATU")
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestStorageFailureIsUnavailable(t *testing.T) {
	svc := newService(&memoryReviews{err: errors.New("socket closed")})

	_, err := svc.Add(context.Background(), "u1", "TATU", &model.ReviewRequest{Rating: 3})
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.KindOf(err))
	_, err = svc.ListBySite(context.Background(), "TATU")
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.KindOf(err))
}
