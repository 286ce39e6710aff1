package imagesearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"

	"github.com/nutriview/backend/internal/domain"
)

const (
	maxImageBytes = 10 << 20
	maxPageBytes  = 5 << 20

	// DefaultTimeout bounds every outbound request
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies the service to image hosts
	DefaultUserAgent = "NutriView/1.0 (+food image resolver)"
)

// Config holds the endpoints and limits for the image search client
type Config struct {
	SearchBaseURL     string
	ScrapeBaseURL     string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// AllowPrivateNetworks lets InspectPage reach loopback and private
	// addresses. Only tests and trusted deployments should set it.
	AllowPrivateNetworks bool
}

// Client fetches templated search images and scrapes search-result pages
type Client struct {
	httpClient    *http.Client
	pageClient    *http.Client
	allowPrivate  bool
	searchBaseURL string
	scrapeBaseURL string
	userAgent     string
	rateLimiter   *rate.Limiter
	debug         bool
}

// NewClient creates a new image search client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pageClient:    newPageHTTPClient(timeout, cfg.AllowPrivateNetworks),
		allowPrivate:  cfg.AllowPrivateNetworks,
		searchBaseURL: cfg.SearchBaseURL,
		scrapeBaseURL: cfg.ScrapeBaseURL,
		userAgent:     userAgent,
		rateLimiter:   rate.NewLimiter(limit, burst),
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// BuildSearchURL substitutes the food name into the image search template:
// <base>?query=<escaped name>,food
func BuildSearchURL(base, foodName string) string {
	return fmt.Sprintf("%s?query=%s,food", base, url.QueryEscape(strings.TrimSpace(foodName)))
}

// BuildScrapeURL builds the search-results page URL for query
func BuildScrapeURL(base, query string) string {
	params := url.Values{}
	params.Set("q", query)
	return fmt.Sprintf("%s?%s", base, params.Encode())
}

// doRequest executes a single rate-limited GET with the client identifier header.
// Non-2xx responses are closed and reported as ErrFetchFailed.
func (c *Client) doRequest(ctx context.Context, httpClient *http.Client, reqURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.debug {
		log.Printf("[IMAGES] GET %s", reqURL)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, errBlockedAddress) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		if c.debug {
			log.Printf("[IMAGES] %s returned status %d", reqURL, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	return resp, nil
}

// FetchImage downloads the templated search image for foodName. The payload
// must sniff as an image and decode, otherwise ErrFetchFailed is returned.
func (c *Client) FetchImage(ctx context.Context, foodName string) (*domain.FetchedImage, error) {
	if c.searchBaseURL == "" {
		return nil, fmt.Errorf("%w: image search base URL not configured", domain.ErrFetchFailed)
	}

	resp, err := c.doRequest(ctx, c.httpClient, BuildSearchURL(c.searchBaseURL, foodName))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read image body: %v", domain.ErrFetchFailed, err)
	}

	contentType, err := DecodableImageType(body)
	if err != nil {
		return nil, err
	}

	return &domain.FetchedImage{
		URI:         resp.Request.URL.String(),
		ContentType: contentType,
		Data:        body,
	}, nil
}

// DecodableImageType sniffs data and returns its image MIME type when the
// header decodes as a supported image format.
func DecodableImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrFetchFailed)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: payload is %s, not an image", domain.ErrFetchFailed, mt.String())
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: undecodable %s payload: %v", domain.ErrFetchFailed, mt.String(), err)
	}

	return mt.String(), nil
}

// ScrapeImageURLs fetches the search-results page for query and returns the
// absolute image URIs it references, in document order.
func (c *Client) ScrapeImageURLs(ctx context.Context, query string) ([]string, error) {
	if c.scrapeBaseURL == "" {
		return nil, fmt.Errorf("%w: scrape base URL not configured", domain.ErrFetchFailed)
	}

	resp, err := c.doRequest(ctx, c.httpClient, BuildScrapeURL(c.scrapeBaseURL, query))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := ScanPage(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parse results page: %v", domain.ErrFetchFailed, err)
	}

	if c.debug {
		log.Printf("[IMAGES] %q: %d image candidates", query, len(page.Images))
	}

	return page.Images, nil
}

// InspectPage fetches a user-supplied absolute http(s) page on a public
// address and summarises it. Internal addresses yield ErrInvalidRequest.
func (c *Client) InspectPage(ctx context.Context, rawURL string) (*domain.PageSummary, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !domain.IsAbsoluteURI(rawURL) {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) URL", domain.ErrInvalidRequest, rawURL)
	}
	if !c.allowPrivate {
		if err := checkLiteralHost(rawURL); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
	}

	resp, err := c.doRequest(ctx, c.pageClient, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := ScanPage(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", domain.ErrFetchFailed, err)
	}

	return &domain.PageSummary{
		URL:        rawURL,
		Title:      page.Title,
		ImageCount: len(page.Images),
	}, nil
}
