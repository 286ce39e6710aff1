package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleNames = []string{"Burger", "Butter Chicken", "Chicken Tikka", "Fried Chicken", "Fries", "Pizza", "Sushi"}

func TestMatchingService_Suggest(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})

	tests := []struct {
		name     string
		query    string
		contains []string
		first    string
	}{
		{name: "typo", query: "Piza", contains: []string{"Pizza"}, first: "Pizza"},
		{name: "case differs", query: "sushi", contains: []string{"Sushi"}, first: "Sushi"},
		{name: "partial token", query: "chicken", contains: []string{"Butter Chicken", "Fried Chicken"}},
		{name: "misspelled token", query: "fryed chicken", contains: []string{"Fried Chicken"}, first: "Fried Chicken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Suggest(tt.query, sampleNames)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			if tt.first != "" {
				assert.Equal(t, tt.first, got[0])
			}
			assert.LessOrEqual(t, len(got), 3)
		})
	}
}

func TestMatchingService_NoSuggestions(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})

	assert.Empty(t, svc.Suggest("quantum", sampleNames))
	assert.Empty(t, svc.Suggest("", sampleNames))
	assert.Empty(t, svc.Suggest("Pizza", nil))
}

func TestMatchingService_MaxSuggestions(t *testing.T) {
	svc := NewMatchingService(MatchConfig{MaxSuggestions: 1})

	got := svc.Suggest("chicken", sampleNames)
	assert.Len(t, got, 1)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"pizza", "piza", 1},
		{"crème", "creme", 1},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"mac", "cheese"}, tokenize("Mac & Cheese"))
	assert.Equal(t, []string{"chicken"}, tokenize("the chicken food"))
	assert.Nil(t, tokenize("a"))
}

func TestFuzzyTokenMatch(t *testing.T) {
	assert.True(t, fuzzyTokenMatch("fried", "fryed", 1))
	assert.False(t, fuzzyTokenMatch("fry", "fri", 1), "short tokens must match exactly")
	assert.False(t, fuzzyTokenMatch("chicken", "kitchen", 1))
}
