package domain

// NutritionRecord holds the nutrition facts for one catalog food
type NutritionRecord struct {
	Name     string  `json:"name" yaml:"-"`
	Calories float64 `json:"calories" yaml:"calories"`
	ProteinG float64 `json:"proteinG" yaml:"protein_g"`
	CarbsG   float64 `json:"carbsG" yaml:"carbs_g"`
	FatG     float64 `json:"fatG" yaml:"fat_g"`
}

// Macronutrient labels used as MacroShare keys
const (
	MacroProtein = "Protein"
	MacroCarbs   = "Carbs"
	MacroFat     = "Fat"
)

// MacroShare maps a macronutrient label to its gram value
type MacroShare map[string]float64

// FoodProfile is everything a client needs to render a single food
type FoodProfile struct {
	Record NutritionRecord `json:"record"`
	Macros MacroShare      `json:"macros"`
	Image  ImageReference  `json:"image"`
}

// SearchRequest represents a nutrition lookup request
type SearchRequest struct {
	FoodName string `json:"foodName" binding:"required"`
}
