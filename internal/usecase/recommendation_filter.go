package usecase

import (
	"github.com/nutriview/backend/internal/domain"
)

// DefaultRecommendationLimit caps filter results when no limit is given
const DefaultRecommendationLimit = 5

// Predicate decides whether a row belongs in a filter result
type Predicate func(domain.TabularRecord) bool

// DietEquals matches rows whose diet is exactly diet
func DietEquals(diet string) Predicate {
	return func(r domain.TabularRecord) bool { return r.Diet == diet }
}

// CuisineEquals matches rows whose cuisine is exactly cuisine
func CuisineEquals(cuisine string) Predicate {
	return func(r domain.TabularRecord) bool { return r.Cuisine == cuisine }
}

// CaloriesAtMost matches rows at or under the ceiling
func CaloriesAtMost(max float64) Predicate {
	return func(r domain.TabularRecord) bool { return r.Calories <= max }
}

// All matches rows that satisfy every predicate
func All(preds ...Predicate) Predicate {
	return func(r domain.TabularRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// CriteriaPredicate composes the recommendation predicate for criteria
func CriteriaPredicate(c domain.FilterCriteria) Predicate {
	return All(
		DietEquals(c.Diet),
		CuisineEquals(c.Cuisine),
		CaloriesAtMost(c.MaxCalories),
	)
}

// Filter returns the first limit rows matching criteria, in catalog order.
// A limit <= 0 means DefaultRecommendationLimit. Malformed rows never match;
// they are counted across the whole catalog in Skipped.
func Filter(rows []domain.TabularRecord, criteria domain.FilterCriteria, limit int) domain.FilterResult {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	match := CriteriaPredicate(criteria)
	result := domain.FilterResult{Records: make([]domain.TabularRecord, 0, limit)}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			result.Skipped++
			continue
		}
		if len(result.Records) < limit && match(row) {
			result.Records = append(result.Records, row)
		}
	}

	return result
}
