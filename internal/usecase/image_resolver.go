package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nutriview/backend/internal/domain"
)

// DefaultPlaceholderURL is returned when every image source is exhausted
const DefaultPlaceholderURL = "https://placehold.co/400x300?text=No+Image"

// Stage names used in logs and metrics
const (
	stageCurated = "curated"
	stageFetched = "fetched"
	stageScraped = "scraped"
)

var (
	errNoCuratedImages = errors.New("no curated images registered")
	errNoImageClient   = errors.New("no image search client configured")
)

// CuratedSource supplies pre-registered image URIs for a food
type CuratedSource interface {
	CuratedImages(name string) []string
}

// ImageResolverConfig holds configuration for the image resolver
type ImageResolverConfig struct {
	PlaceholderURL string
	CacheTTL       time.Duration
	Random         domain.RandomSource
	Logger         *slog.Logger
	Metrics        ImageMetrics
}

// imageStage is one link of the fallback chain
type imageStage struct {
	name string
	// cacheable stages reach the network; the cache is consulted before the first one
	cacheable bool
	resolve   func(ctx context.Context, foodName string) (domain.ImageReference, error)
}

// ImageResolver resolves an image for a food through an ordered fallback
// chain: curated URIs, the templated image search, a scraped results page,
// and finally a fixed placeholder. Only the first success is used.
type ImageResolver struct {
	curated     CuratedSource
	client      domain.ImageSearchClient
	cache       domain.CacheRepository
	random      domain.RandomSource
	logger      *slog.Logger
	metrics     ImageMetrics
	placeholder string
	cacheTTL    time.Duration
	stages      []imageStage
}

// NewImageResolver creates a resolver. cache may be nil to disable caching.
func NewImageResolver(
	curated CuratedSource,
	client domain.ImageSearchClient,
	cache domain.CacheRepository,
	config ImageResolverConfig,
) *ImageResolver {
	placeholder := config.PlaceholderURL
	if placeholder == "" {
		placeholder = DefaultPlaceholderURL
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	random := config.Random
	if random == nil {
		random = NewLockedRandom(time.Now().UnixNano())
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m ImageMetrics = noopMetrics{}
	if config.Metrics != nil {
		m = config.Metrics
	}

	r := &ImageResolver{
		curated:     curated,
		client:      client,
		cache:       cache,
		random:      random,
		logger:      logger,
		metrics:     m,
		placeholder: placeholder,
		cacheTTL:    cacheTTL,
	}

	r.stages = []imageStage{
		{name: stageCurated, resolve: r.resolveCurated},
		{name: stageFetched, cacheable: true, resolve: r.resolveFetched},
		{name: stageScraped, cacheable: true, resolve: r.resolveScraped},
	}

	return r
}

// Resolve returns an image reference for foodName. It never fails: stage
// errors are logged and the chain advances, ending at the placeholder.
func (r *ImageResolver) Resolve(ctx context.Context, foodName string) domain.ImageReference {
	name := strings.TrimSpace(foodName)
	if name == "" {
		return r.placeholderRef()
	}

	cacheChecked := false
	for _, st := range r.stages {
		if st.cacheable && !cacheChecked {
			cacheChecked = true
			if ref, ok := r.fromCache(ctx, name); ok {
				r.metrics.IncrementResolution(string(ref.Source))
				return ref
			}
		}

		start := time.Now()
		ref, err := st.resolve(ctx, name)
		if st.cacheable {
			r.metrics.ObserveStageLatency(st.name, time.Since(start))
		}

		if err == nil {
			if st.cacheable {
				r.toCache(ctx, name, ref)
			}
			r.metrics.IncrementResolution(string(ref.Source))
			return ref
		}

		if errors.Is(err, errNoCuratedImages) || errors.Is(err, errNoImageClient) {
			continue
		}

		r.logger.DebugContext(ctx, "image stage failed",
			"stage", st.name,
			"food", name,
			"error", err,
		)
		r.metrics.IncrementStageFailure(st.name)
	}

	r.logger.DebugContext(ctx, "image sources exhausted, using placeholder", "food", name)
	return r.placeholderRef()
}

func (r *ImageResolver) placeholderRef() domain.ImageReference {
	r.metrics.IncrementResolution(string(domain.ImageSourcePlaceholder))
	return domain.ImageReference{
		Source: domain.ImageSourcePlaceholder,
		URI:    r.placeholder,
	}
}

// resolveCurated picks uniformly among the registered URIs without touching the network
func (r *ImageResolver) resolveCurated(_ context.Context, name string) (domain.ImageReference, error) {
	if r.curated == nil {
		return domain.ImageReference{}, errNoCuratedImages
	}
	uris := r.curated.CuratedImages(name)
	if len(uris) == 0 {
		return domain.ImageReference{}, errNoCuratedImages
	}

	return domain.ImageReference{
		Source: domain.ImageSourceCurated,
		URI:    uris[r.random.Intn(len(uris))],
	}, nil
}

func (r *ImageResolver) resolveFetched(ctx context.Context, name string) (domain.ImageReference, error) {
	if r.client == nil {
		return domain.ImageReference{}, errNoImageClient
	}
	img, err := r.client.FetchImage(ctx, name)
	if err != nil {
		return domain.ImageReference{}, err
	}

	return domain.ImageReference{
		Source:      domain.ImageSourceFetched,
		URI:         img.URI,
		Data:        img.Data,
		ContentType: img.ContentType,
	}, nil
}

func (r *ImageResolver) resolveScraped(ctx context.Context, name string) (domain.ImageReference, error) {
	if r.client == nil {
		return domain.ImageReference{}, errNoImageClient
	}
	candidates, err := r.client.ScrapeImageURLs(ctx, scrapeQuery(name))
	if err != nil {
		return domain.ImageReference{}, err
	}

	usable := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if domain.IsAbsoluteURI(c) {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return domain.ImageReference{}, fmt.Errorf("%w: %d references, none absolute", domain.ErrNoScrapeCandidates, len(candidates))
	}

	return domain.ImageReference{
		Source: domain.ImageSourceScraped,
		URI:    usable[r.random.Intn(len(usable))],
	}, nil
}

// fromCache returns a previously fetched or scraped reference
func (r *ImageResolver) fromCache(ctx context.Context, name string) (domain.ImageReference, bool) {
	if r.cache == nil {
		return domain.ImageReference{}, false
	}

	raw, err := r.cache.Get(ctx, imageCacheKey(name))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			r.logger.WarnContext(ctx, "image cache read failed", "food", name, "error", err)
		}
		r.metrics.IncrementCacheLookup(false)
		return domain.ImageReference{}, false
	}

	var ref domain.ImageReference
	if err := json.Unmarshal(raw, &ref); err != nil || ref.URI == "" {
		r.metrics.IncrementCacheLookup(false)
		return domain.ImageReference{}, false
	}

	r.metrics.IncrementCacheLookup(true)
	return ref, true
}

// toCache stores the URI of a network-resolved reference, never its payload;
// failures are logged only
func (r *ImageResolver) toCache(ctx context.Context, name string, ref domain.ImageReference) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(domain.ImageReference{
		Source:      ref.Source,
		URI:         ref.URI,
		ContentType: ref.ContentType,
	})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, imageCacheKey(name), raw, r.cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "image cache write failed", "food", name, "error", err)
	}
}
