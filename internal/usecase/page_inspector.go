package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nutriview/backend/internal/domain"
)

// PageInspector fetches a user-supplied page and reports its title
type PageInspector struct {
	fetcher domain.PageFetcher
	logger  *slog.Logger
}

// NewPageInspector creates a page inspector
func NewPageInspector(fetcher domain.PageFetcher, logger *slog.Logger) *PageInspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageInspector{fetcher: fetcher, logger: logger}
}

// Inspect fetches rawURL once and summarises it
func (p *PageInspector) Inspect(ctx context.Context, rawURL string) (*domain.PageSummary, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}

	summary, err := p.fetcher.InspectPage(ctx, rawURL)
	if err != nil {
		p.logger.InfoContext(ctx, "page inspection failed", "url", rawURL, "error", err)
		return nil, err
	}

	return summary, nil
}
