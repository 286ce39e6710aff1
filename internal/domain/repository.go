package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ImageSearchClient talks to the external image sources used by the fallback chain
type ImageSearchClient interface {
	// FetchImage downloads the templated search image for a food name
	FetchImage(ctx context.Context, foodName string) (*FetchedImage, error)
	// ScrapeImageURLs returns the absolute image URIs on a search-results page
	ScrapeImageURLs(ctx context.Context, query string) ([]string, error)
}

// PageFetcher retrieves arbitrary pages for inspection
type PageFetcher interface {
	InspectPage(ctx context.Context, rawURL string) (*PageSummary, error)
}

// RandomSource picks an index in [0, n). Implementations shared across
// goroutines must be safe for concurrent use.
type RandomSource interface {
	Intn(n int) int
}

// ImageResolver returns an image reference for a food name and never fails
type ImageResolver interface {
	Resolve(ctx context.Context, foodName string) ImageReference
}
