package service

import (
	"context"
	"fmt"

	"vintedwatch/internal/external/vinted"
	"vintedwatch/internal/model"

	"go.uber.org/zap"
)

// testResultLimit caps how many listings a /vinted test returns.
const testResultLimit = 3

// SearchService manages saved searches.
type SearchService struct {
	repo    model.SearchRepository
	fetcher vinted.Fetcher
	logger  *zap.Logger
}

// NewSearchService creates a search service.
func NewSearchService(repo model.SearchRepository, fetcher vinted.Fetcher, logger *zap.Logger) *SearchService {
	return &SearchService{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Add validates and stores a new search.
func (s *SearchService) Add(search *model.Search) error {
	if err := search.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(search); err != nil {
		return fmt.Errorf("failed to add search: %w", err)
	}

	s.logger.Info("Search added",
		zap.Int("search_id", search.SearchID),
		zap.String("user_id", search.UserID),
		zap.String("keyword", search.Keyword))

	return nil
}

// ListByUser returns the caller's searches.
func (s *SearchService) ListByUser(userID string) ([]model.Search, error) {
	return s.repo.GetByUser(userID)
}

// GetEnabled returns all enabled searches.
func (s *SearchService) GetEnabled() ([]model.Search, error) {
	return s.repo.GetEnabled()
}

// GetAll returns every search regardless of owner or state.
func (s *SearchService) GetAll() ([]model.Search, error) {
	return s.repo.GetAll()
}

// Remove deletes a search after checking ownership.
func (s *SearchService) Remove(searchID int, userID string) error {
	search, err := s.repo.GetByID(searchID)
	if err != nil {
		return fmt.Errorf("failed to load search: %w", err)
	}
	if search == nil {
		return ErrSearchNotFound
	}
	if !search.OwnedBy(userID) {
		return ErrNotOwner
	}

	if err := s.repo.Delete(searchID); err != nil {
		return fmt.Errorf("failed to remove search: %w", err)
	}

	s.logger.Info("Search removed",
		zap.Int("search_id", searchID),
		zap.String("user_id", userID))

	return nil
}

// Test runs a search immediately and returns up to three listings,
// bypassing the seen set.
func (s *SearchService) Test(ctx context.Context, searchID int, userID string) ([]model.Listing, error) {
	search, err := s.repo.GetByID(searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load search: %w", err)
	}
	if search == nil {
		return nil, ErrSearchNotFound
	}
	if !search.OwnedBy(userID) {
		return nil, ErrNotOwner
	}

	listings, err := s.fetcher.Search(ctx, search, testResultLimit)
	if err != nil {
		return nil, fmt.Errorf("test fetch failed: %w", err)
	}

	return listings, nil
}

// MarkRun records that a search was just processed.
func (s *SearchService) MarkRun(searchID int) {
	if err := s.repo.TouchLastRun(searchID, timeNow()); err != nil {
		s.logger.Warn("Failed to record last run",
			zap.Int("search_id", searchID),
			zap.Error(err))
	}
}
