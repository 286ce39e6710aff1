// Package catalog holds the immutable nutrition and recommendation catalogs.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nutriview/backend/internal/domain"
)

// NutritionCatalog maps a food name to its nutrition record and optional
// curated image URIs. It is read-only after construction.
type NutritionCatalog struct {
	records map[string]domain.NutritionRecord
	images  map[string][]string
	names   []string
}

// NewNutritionCatalog validates records and curated images and builds a catalog.
// Duplicate names, negative or non-finite values, and curated lists for unknown
// or empty entries are rejected with ErrInvalidCatalog.
func NewNutritionCatalog(records []domain.NutritionRecord, images map[string][]string) (*NutritionCatalog, error) {
	c := &NutritionCatalog{
		records: make(map[string]domain.NutritionRecord, len(records)),
		images:  make(map[string][]string, len(images)),
		names:   make([]string, 0, len(records)),
	}

	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, err
		}
		if _, dup := c.records[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate food %q", domain.ErrInvalidCatalog, r.Name)
		}
		c.records[r.Name] = r
		c.names = append(c.names, r.Name)
	}
	sort.Strings(c.names)

	for name, uris := range images {
		if _, ok := c.records[name]; !ok {
			return nil, fmt.Errorf("%w: curated images for unknown food %q", domain.ErrInvalidCatalog, name)
		}
		kept := make([]string, 0, len(uris))
		for _, u := range uris {
			if u = strings.TrimSpace(u); u != "" {
				kept = append(kept, u)
			}
		}
		if len(kept) == 0 {
			return nil, fmt.Errorf("%w: empty curated image list for %q", domain.ErrInvalidCatalog, name)
		}
		c.images[name] = kept
	}

	return c, nil
}

func validateRecord(r domain.NutritionRecord) error {
	if r.Name == "" || r.Name != strings.TrimSpace(r.Name) {
		return fmt.Errorf("%w: food name %q must be non-empty and trimmed", domain.ErrInvalidCatalog, r.Name)
	}
	for label, v := range map[string]float64{
		"calories":  r.Calories,
		"protein_g": r.ProteinG,
		"carbs_g":   r.CarbsG,
		"fat_g":     r.FatG,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %q has invalid %s %v", domain.ErrInvalidCatalog, r.Name, label, v)
		}
	}
	return nil
}

// Lookup returns the record for name. The input is trimmed; matching is
// exact and case-sensitive.
func (c *NutritionCatalog) Lookup(name string) (domain.NutritionRecord, error) {
	name = strings.TrimSpace(name)
	r, ok := c.records[name]
	if !ok {
		return domain.NutritionRecord{}, fmt.Errorf("%w: %q", domain.ErrNotFoundInCatalog, name)
	}
	return r, nil
}

// CuratedImages returns a copy of the curated image URIs for name, or nil
func (c *NutritionCatalog) CuratedImages(name string) []string {
	uris := c.images[strings.TrimSpace(name)]
	if len(uris) == 0 {
		return nil
	}
	out := make([]string, len(uris))
	copy(out, uris)
	return out
}

// Names returns all food names in sorted order
func (c *NutritionCatalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Records returns all records sorted by name
func (c *NutritionCatalog) Records() []domain.NutritionRecord {
	out := make([]domain.NutritionRecord, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.records[n])
	}
	return out
}

// Len returns the number of foods in the catalog
func (c *NutritionCatalog) Len() int {
	return len(c.records)
}
