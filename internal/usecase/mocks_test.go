package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nutriview/backend/internal/domain"
)

// discardLogger keeps test output quiet
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedRandom always picks the same index
type fixedRandom struct {
	index int
}

func (f fixedRandom) Intn(n int) int {
	return f.index % n
}

// MockImageSearchClient is a mock implementation of domain.ImageSearchClient
type MockImageSearchClient struct {
	mu            sync.Mutex
	fetchResult   *domain.FetchedImage
	fetchError    error
	scrapeResult  []string
	scrapeError   error
	fetchCalls    int
	scrapeCalls   int
	scrapeQueries []string
}

func (m *MockImageSearchClient) FetchImage(ctx context.Context, foodName string) (*domain.FetchedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return m.fetchResult, nil
}

func (m *MockImageSearchClient) ScrapeImageURLs(ctx context.Context, query string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrapeCalls++
	m.scrapeQueries = append(m.scrapeQueries, query)
	if m.scrapeError != nil {
		return nil, m.scrapeError
	}
	return m.scrapeResult, nil
}

func (m *MockImageSearchClient) networkCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls + m.scrapeCalls
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// curatedMap is a CuratedSource backed by a map
type curatedMap map[string][]string

func (c curatedMap) CuratedImages(name string) []string {
	return c[name]
}

// echoResolver tags every food with a URI derived from its name
type echoResolver struct {
	mu    sync.Mutex
	calls []string
	delay func(name string) time.Duration
}

func (e *echoResolver) Resolve(ctx context.Context, foodName string) domain.ImageReference {
	if e.delay != nil {
		time.Sleep(e.delay(foodName))
	}
	e.mu.Lock()
	e.calls = append(e.calls, foodName)
	e.mu.Unlock()
	return domain.ImageReference{Source: domain.ImageSourceCurated, URI: "img://" + foodName}
}

// recordingMetrics captures metric calls for assertions
type recordingMetrics struct {
	mu            sync.Mutex
	resolutions   map[string]int
	failures      map[string]int
	cacheHits     int
	cacheMisses   int
	filterResults int
	skipped       int
}

func (m *recordingMetrics) IncrementResolution(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolutions == nil {
		m.resolutions = make(map[string]int)
	}
	m.resolutions[source]++
}

func (m *recordingMetrics) IncrementStageFailure(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures == nil {
		m.failures = make(map[string]int)
	}
	m.failures[stage]++
}

func (m *recordingMetrics) ObserveStageLatency(string, time.Duration) {}

func (m *recordingMetrics) IncrementCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

func (m *recordingMetrics) ObserveFilter(results, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filterResults += results
	m.skipped += skipped
}
