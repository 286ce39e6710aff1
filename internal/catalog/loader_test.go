package catalog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nutriview/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNutritionDefaults(t *testing.T) {
	c, err := LoadNutrition("")
	require.NoError(t, err)

	assert.Equal(t, 39, c.Len())

	got, err := c.Lookup("Pizza")
	require.NoError(t, err)
	assert.Equal(t, domain.NutritionRecord{Name: "Pizza", Calories: 285, ProteinG: 12, CarbsG: 36, FatG: 10}, got)

	steak, err := c.Lookup("Steak")
	require.NoError(t, err)
	assert.Equal(t, 0.0, steak.CarbsG)
}

func TestLoadNutritionDefaults_CuratedImages(t *testing.T) {
	c, err := LoadNutrition("")
	require.NoError(t, err)

	for _, name := range []string{"Pizza", "Burger", "Sushi", "Ramen"} {
		uris := c.CuratedImages(name)
		require.NotEmpty(t, uris, name)
		for _, u := range uris {
			assert.True(t, domain.IsAbsoluteURI(u), u)
		}
	}
	assert.Nil(t, c.CuratedImages("Steak"))
}

func TestParseNutritionYAML(t *testing.T) {
	t.Run("reads foods and images", func(t *testing.T) {
		doc := `
foods:
  Pizza: {calories: 285, protein_g: 12, carbs_g: 36, fat_g: 10}
images:
  Pizza: ["https://img.example/a.jpg", "https://img.example/b.jpg"]
`
		c, err := ParseNutritionYAML(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Len(t, c.CuratedImages("Pizza"), 2)
	})

	t.Run("accepts JSON documents", func(t *testing.T) {
		doc := `{"foods": {"Sushi": {"calories": 200, "protein_g": 8, "carbs_g": 28, "fat_g": 4}}}`
		c, err := ParseNutritionYAML(strings.NewReader(doc))
		require.NoError(t, err)
		_, err = c.Lookup("Sushi")
		assert.NoError(t, err)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		doc := "foods:\n  Pizza: {calories: 1, sugar_g: 3}\n"
		_, err := ParseNutritionYAML(strings.NewReader(doc))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("rejects empty catalog", func(t *testing.T) {
		_, err := ParseNutritionYAML(strings.NewReader("foods: {}\n"))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})
}

func TestLoadNutritionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrition.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foods:\n  Tacos: {calories: 226, protein_g: 12, carbs_g: 20, fat_g: 12}\n"), 0o644))

	c, err := LoadNutrition(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tacos"}, c.Names())

	_, err = LoadNutrition(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseTabularCSV(t *testing.T) {
	t.Run("keeps order and passes extra columns through", func(t *testing.T) {
		doc := "food_name,diet,cuisine,calories,course\nA,Vegan,Indian,100,Main\nB,Vegan,Thai,200,Side\n"
		rows, err := ParseTabularCSV(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].FoodName)
		assert.Equal(t, 100.0, rows[0].Calories)
		assert.Equal(t, map[string]string{"course": "Main"}, rows[0].Extra)
		assert.Equal(t, "B", rows[1].FoodName)
	})

	t.Run("keeps malformed rows for the filter to count", func(t *testing.T) {
		doc := "food_name,diet,cuisine,calories\nA,Vegan,Indian,\nB,Vegan\nC,Vegan,Indian,lots\n"
		rows, err := ParseTabularCSV(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.True(t, math.IsNaN(rows[0].Calories))
		assert.Equal(t, "", rows[1].Cuisine)
		assert.ErrorIs(t, rows[2].Validate(), domain.ErrMalformedCatalogRow)
	})

	t.Run("rejects missing required column", func(t *testing.T) {
		_, err := ParseTabularCSV(strings.NewReader("food_name,diet,calories\nA,Vegan,100\n"))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseTabularCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})
}

func TestLoadTabularDefaults(t *testing.T) {
	rows, err := LoadTabular("")
	require.NoError(t, err)
	assert.Len(t, rows, 30)
	for _, r := range rows {
		assert.NoError(t, r.Validate(), r.FoodName)
	}
}
