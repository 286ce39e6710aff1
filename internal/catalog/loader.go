package catalog

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nutriview/backend/internal/domain"
)

//go:embed data/nutrition.yaml data/recommendations.csv
var defaults embed.FS

// Required tabular columns
const (
	ColumnFoodName = "food_name"
	ColumnDiet     = "diet"
	ColumnCuisine  = "cuisine"
	ColumnCalories = "calories"
)

var requiredColumns = []string{ColumnFoodName, ColumnDiet, ColumnCuisine, ColumnCalories}

// nutritionFile is the on-disk layout of a nutrition catalog
type nutritionFile struct {
	Foods  map[string]domain.NutritionRecord `yaml:"foods"`
	Images map[string][]string              `yaml:"images"`
}

// LoadNutrition loads the nutrition catalog from path, or the embedded
// default catalog when path is empty.
func LoadNutrition(path string) (*NutritionCatalog, error) {
	if path == "" {
		data, err := defaults.ReadFile("data/nutrition.yaml")
		if err != nil {
			return nil, fmt.Errorf("read embedded nutrition catalog: %w", err)
		}
		return ParseNutritionYAML(bytes.NewReader(data))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nutrition catalog: %w", err)
	}
	defer f.Close()

	return ParseNutritionYAML(f)
}

// ParseNutritionYAML decodes a nutrition catalog document. JSON documents
// are accepted too since YAML is a superset.
func ParseNutritionYAML(r io.Reader) (*NutritionCatalog, error) {
	var doc nutritionFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode nutrition catalog: %v", domain.ErrInvalidCatalog, err)
	}
	if len(doc.Foods) == 0 {
		return nil, fmt.Errorf("%w: nutrition catalog has no foods", domain.ErrInvalidCatalog)
	}

	records := make([]domain.NutritionRecord, 0, len(doc.Foods))
	for name, rec := range doc.Foods {
		rec.Name = name
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	return NewNutritionCatalog(records, doc.Images)
}

// LoadTabular loads the recommendation rows from path, or the embedded
// default rows when path is empty.
func LoadTabular(path string) ([]domain.TabularRecord, error) {
	if path == "" {
		data, err := defaults.ReadFile("data/recommendations.csv")
		if err != nil {
			return nil, fmt.Errorf("read embedded recommendation catalog: %w", err)
		}
		return ParseTabularCSV(bytes.NewReader(data))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recommendation catalog: %w", err)
	}
	defer f.Close()

	return ParseTabularCSV(f)
}

// ParseTabularCSV reads a header row followed by data rows. The header must
// name every required column. Rows keep their file order. A blank or
// unparsable calories cell is kept as NaN so the filter can count the row as
// malformed instead of the load failing.
func ParseTabularCSV(r io.Reader) ([]domain.TabularRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty recommendation catalog", domain.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrInvalidCatalog, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidCatalog, col)
		}
	}

	var rows []domain.TabularRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", domain.ErrInvalidCatalog, err)
		}

		cell := func(col string) string {
			i := index[col]
			if i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		row := domain.TabularRecord{
			FoodName: cell(ColumnFoodName),
			Diet:     cell(ColumnDiet),
			Cuisine:  cell(ColumnCuisine),
			Calories: parseCalories(cell(ColumnCalories)),
		}
		for i, h := range header {
			key := strings.ToLower(strings.TrimSpace(h))
			if isRequired(key) || i >= len(fields) {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[strings.TrimSpace(h)] = fields[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseCalories(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isRequired(col string) bool {
	for _, c := range requiredColumns {
		if c == col {
			return true
		}
	}
	return false
}
