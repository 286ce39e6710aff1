package domain

import (
	"fmt"
	"math"
)

// FilterCriteria narrows the recommendation catalog
type FilterCriteria struct {
	Diet        string  `json:"diet" binding:"required"`
	Cuisine     string  `json:"cuisine" binding:"required"`
	MaxCalories float64 `json:"maxCalories"`
}

// TabularRecord is one row of the recommendation catalog.
// Columns other than the four the filter reads are kept in Extra untouched.
type TabularRecord struct {
	FoodName string            `json:"foodName"`
	Diet     string            `json:"diet"`
	Cuisine  string            `json:"cuisine"`
	Calories float64           `json:"calories"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Validate reports ErrMalformedCatalogRow when a required field is missing
func (r TabularRecord) Validate() error {
	switch {
	case r.FoodName == "":
		return fmt.Errorf("%w: missing food_name", ErrMalformedCatalogRow)
	case r.Diet == "":
		return fmt.Errorf("%w: %q missing diet", ErrMalformedCatalogRow, r.FoodName)
	case r.Cuisine == "":
		return fmt.Errorf("%w: %q missing cuisine", ErrMalformedCatalogRow, r.FoodName)
	case math.IsNaN(r.Calories) || math.IsInf(r.Calories, 0) || r.Calories < 0:
		return fmt.Errorf("%w: %q has invalid calories", ErrMalformedCatalogRow, r.FoodName)
	}
	return nil
}

// FilterResult is the capped, order-preserving output of a filter pass
type FilterResult struct {
	Records []TabularRecord `json:"records"`
	Skipped int             `json:"skipped"`
}

// RecommendRequest is the HTTP body for the recommendation endpoint
type RecommendRequest struct {
	FilterCriteria
	Limit int `json:"limit"`
}

// Recommendation pairs a matching row with its resolved image
type Recommendation struct {
	Record TabularRecord  `json:"record"`
	Image  ImageReference `json:"image"`
}
