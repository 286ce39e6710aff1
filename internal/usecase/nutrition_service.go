package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nutriview/backend/internal/catalog"
	"github.com/nutriview/backend/internal/domain"
)

// MaxFoodNameLength bounds free-form names sent to the image resolver, in characters
const MaxFoodNameLength = 100

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	MaxSuggestions int
	Logger         *slog.Logger
}

// NutritionService resolves a food name into its record, macros and image
type NutritionService struct {
	catalog         *catalog.NutritionCatalog
	resolver        domain.ImageResolver
	matchingService *MatchingService
	logger          *slog.Logger
}

// NewNutritionService creates a new nutrition service with dependencies
func NewNutritionService(
	nutrition *catalog.NutritionCatalog,
	resolver domain.ImageResolver,
	config NutritionServiceConfig,
) *NutritionService {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &NutritionService{
		catalog:         nutrition,
		resolver:        resolver,
		matchingService: NewMatchingService(MatchConfig{MaxSuggestions: config.MaxSuggestions}),
		logger:          logger,
	}
}

// Profile looks up foodName and, only once it is found, resolves its image.
// Flow: lookup -> resolve image -> summarize macros
func (s *NutritionService) Profile(ctx context.Context, foodName string) (*domain.FoodProfile, error) {
	record, err := s.Lookup(foodName)
	if err != nil {
		return nil, err
	}

	image := s.resolver.Resolve(ctx, record.Name)
	if image.IsPlaceholder() {
		s.logger.InfoContext(ctx, "no image found, placeholder used", "food", record.Name)
	}

	return &domain.FoodProfile{
		Record: record,
		Macros: Summarize(record),
		Image:  image,
	}, nil
}

// Lookup validates foodName and returns its catalog record
func (s *NutritionService) Lookup(foodName string) (domain.NutritionRecord, error) {
	if strings.TrimSpace(foodName) == "" {
		return domain.NutritionRecord{}, fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}
	return s.catalog.Lookup(foodName)
}

// Image resolves an image for any non-empty food name
func (s *NutritionService) Image(ctx context.Context, foodName string) (domain.ImageReference, error) {
	name := strings.TrimSpace(foodName)
	if name == "" {
		return domain.ImageReference{}, fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(name) > MaxFoodNameLength {
		return domain.ImageReference{}, fmt.Errorf("%w: food name exceeds %d characters", domain.ErrInvalidRequest, MaxFoodNameLength)
	}
	return s.resolver.Resolve(ctx, name), nil
}

// Suggest returns catalog names resembling an unmatched food name
func (s *NutritionService) Suggest(foodName string) []string {
	return s.matchingService.Suggest(foodName, s.catalog.Names())
}

// Table returns the full nutrition table sorted by name
func (s *NutritionService) Table() []domain.NutritionRecord {
	return s.catalog.Records()
}
