package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

const (
	cacheKeyPrograms = "catalog:programs"
	cacheKeyPlans    = "catalog:plans"
)

type catalogReader interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
}

// CatalogService serves the public program and plan catalogs. Both change
// rarely, so reads go through the cache with the default TTL.
type CatalogService struct {
	repo   catalogReader
	cache  *CacheService
	logger *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogReader, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// Programs returns the course catalog.
func (s *CatalogService) Programs(ctx context.Context) ([]models.Program, error) {
	if s.cache.Enabled() {
		var cached []models.Program
		if hit, err := s.cache.Get(ctx, cacheKeyPrograms, &cached); err == nil && hit {
			return cached, nil
		}
	}

	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKeyPrograms, programs, 0); err != nil {
			s.logger.Debug("failed to cache programs", zap.Error(err))
		}
	}
	return programs, nil
}

// Plans returns the subscription plan catalog, cheapest first.
func (s *CatalogService) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	if s.cache.Enabled() {
		var cached []models.SubscriptionPlan
		if hit, err := s.cache.Get(ctx, cacheKeyPlans, &cached); err == nil && hit {
			return cached, nil
		}
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKeyPlans, plans, 0); err != nil {
			s.logger.Debug("failed to cache plans", zap.Error(err))
		}
	}
	return plans, nil
}
