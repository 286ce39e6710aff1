package usecase

import (
	"regexp"
	"strings"
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// scrapeQuerySuffix narrows scraped search results to dishes
const scrapeQuerySuffix = " food"

// imageCacheKey is the cache key for a food's resolved image.
// Format: "image:{food name}". Names are matched case-sensitively everywhere
// else, so only surrounding and repeated whitespace is folded here.
func imageCacheKey(foodName string) string {
	return "image:" + collapseSpaces(foodName)
}

// collapseSpaces trims s and collapses internal whitespace runs
func collapseSpaces(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

// scrapeQuery builds the search-results query for a food name
func scrapeQuery(foodName string) string {
	return collapseSpaces(foodName) + scrapeQuerySuffix
}
