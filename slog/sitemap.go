package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gxjansen/sitepdf"
)

var _ sitepdf.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap discovery.
type LoggingSitemapService struct {
	next   sitepdf.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService wraps next.
func NewLoggingSitemapService(next sitepdf.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, sitemapURLs []string) (urls []string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, s.logger, "sitemap discovery", begin, err,
			"sitemaps", len(sitemapURLs),
			"count", len(urls),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, sitemapURLs)
}
