package usecase

import "github.com/nutriview/backend/internal/domain"

// Summarize projects a record onto its protein, carbohydrate and fat grams.
// Calories are dropped and nothing is scaled; percentages are the chart's job.
func Summarize(record domain.NutritionRecord) domain.MacroShare {
	return domain.MacroShare{
		domain.MacroProtein: record.ProteinG,
		domain.MacroCarbs:   record.CarbsG,
		domain.MacroFat:     record.FatG,
	}
}
