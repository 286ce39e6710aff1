package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Scoring weights
const (
	tokenCoverageWeight = 0.9  // Share of query tokens found in the candidate
	substringMatchBonus = 10.0 // Query is a substring of the candidate or vice versa
	minSubstringLength  = 3
)

// stopWords are dropped before token comparison
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "food": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinScore          float64
	FuzzyEditDistance int
	MaxSuggestions    int
}

// MatchingService ranks catalog names that resemble an unmatched query.
// It only produces "did you mean" hints; catalog lookup stays exact.
type MatchingService struct {
	minScore          float64
	fuzzyEditDistance int
	maxSuggestions    int
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = 50.0
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	maxSuggestions := config.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 3
	}

	return &MatchingService{
		minScore:          minScore,
		fuzzyEditDistance: fuzzyDist,
		maxSuggestions:    maxSuggestions,
	}
}

type scoredName struct {
	name  string
	score float64
}

// Suggest returns up to maxSuggestions candidates scoring at least minScore,
// best first; ties are broken alphabetically.
func (s *MatchingService) Suggest(query string, candidates []string) []string {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 {
		return nil
	}

	var scored []scoredName
	for _, c := range candidates {
		if score := s.score(query, c); score >= s.minScore {
			scored = append(scored, scoredName{name: c, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name < scored[j].name
	})

	if len(scored) > s.maxSuggestions {
		scored = scored[:s.maxSuggestions]
	}

	out := make([]string, 0, len(scored))
	for _, sc := range scored {
		out = append(out, sc.name)
	}
	return out
}

// score computes similarity between a query and a candidate name in 0-100.
// It takes the better of whole-string edit similarity and fuzzy token
// coverage, plus a bonus when one string contains the other.
func (s *MatchingService) score(query, candidate string) float64 {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)
	if q == c {
		return 100
	}

	longest := max(len([]rune(q)), len([]rune(c)))
	similarity := 1 - float64(levenshteinDistance(q, c))/float64(longest)

	coverage := 0.0
	queryTokens := tokenize(q)
	candidateTokens := tokenize(c)
	if len(queryTokens) > 0 && len(candidateTokens) > 0 {
		matched := 0
		for _, qt := range queryTokens {
			for _, ct := range candidateTokens {
				if qt == ct || fuzzyTokenMatch(qt, ct, s.fuzzyEditDistance) {
					matched++
					break
				}
			}
		}
		coverage = float64(matched) / float64(len(queryTokens)) * tokenCoverageWeight
	}

	score := max(similarity, coverage) * 100

	if len(q) >= minSubstringLength && (strings.Contains(c, q) || strings.Contains(q, c)) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words and single-character tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens of 4+ chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
