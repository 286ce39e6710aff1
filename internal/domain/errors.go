package domain

import "errors"

var (
	// ErrNotFoundInCatalog is returned when a food name is absent from the nutrition catalog
	ErrNotFoundInCatalog = errors.New("food not found in catalog")

	// ErrFetchFailed is returned when an outbound image or page request fails
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNoScrapeCandidates is returned when a scraped page yields no usable image references
	ErrNoScrapeCandidates = errors.New("no image candidates on scraped page")

	// ErrMalformedCatalogRow marks a tabular row missing required fields
	ErrMalformedCatalogRow = errors.New("malformed catalog row")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCatalog is returned when a catalog cannot be constructed
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
