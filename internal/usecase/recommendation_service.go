package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nutriview/backend/internal/domain"
)

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	DefaultLimit int
	MaxLimit     int
	Parallelism  int
	Logger       *slog.Logger
	Metrics      FilterMetrics
}

// RecommendationResult is a filtered, image-resolved recommendation list
type RecommendationResult struct {
	Results []domain.Recommendation `json:"results"`
	Skipped int                     `json:"skipped"`
}

// RecommendationService filters the tabular catalog and resolves an image per row
type RecommendationService struct {
	rows         []domain.TabularRecord
	resolver     domain.ImageResolver
	defaultLimit int
	maxLimit     int
	parallelism  int
	logger       *slog.Logger
	metrics      FilterMetrics
}

// NewRecommendationService creates a new recommendation service over rows
func NewRecommendationService(
	rows []domain.TabularRecord,
	resolver domain.ImageResolver,
	config RecommendationServiceConfig,
) *RecommendationService {
	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecommendationLimit
	}
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}
	parallelism := config.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var m FilterMetrics = noopMetrics{}
	if config.Metrics != nil {
		m = config.Metrics
	}

	return &RecommendationService{
		rows:         rows,
		resolver:     resolver,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		parallelism:  parallelism,
		logger:       logger,
		metrics:      m,
	}
}

// Recommend filters the catalog by criteria and resolves each match's image
// concurrently. Result order follows catalog order. An empty result is not an error.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	criteria domain.FilterCriteria,
	limit int,
) (*RecommendationResult, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	filtered := Filter(s.rows, criteria, limit)
	s.metrics.ObserveFilter(len(filtered.Records), filtered.Skipped)
	if filtered.Skipped > 0 {
		s.logger.WarnContext(ctx, "skipped malformed recommendation rows", "count", filtered.Skipped)
	}

	results := make([]domain.Recommendation, len(filtered.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, row := range filtered.Records {
		i, row := i, row
		g.Go(func() error {
			results[i] = domain.Recommendation{
				Record: row,
				Image:  s.resolver.Resolve(gctx, row.FoodName),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RecommendationResult{
		Results: results,
		Skipped: filtered.Skipped,
	}, nil
}

func validateCriteria(c domain.FilterCriteria) error {
	if strings.TrimSpace(c.Diet) == "" || strings.TrimSpace(c.Cuisine) == "" {
		return fmt.Errorf("%w: diet and cuisine are required", domain.ErrInvalidRequest)
	}
	if math.IsNaN(c.MaxCalories) || c.MaxCalories < 0 {
		return fmt.Errorf("%w: maxCalories must be a non-negative number", domain.ErrInvalidRequest)
	}
	return nil
}
