package sitepdf

import (
	"context"
	"time"
)

// Politeness answers fetch permission and pacing questions for one domain.
// Implementations load their rules once and never refresh them.
type Politeness interface {
	// CanFetch reports whether the rules permit UserAgent to fetch url.
	CanFetch(url string) bool

	// CrawlDelay returns the site-declared minimum delay between requests,
	// or one second if the site declares none.
	CrawlDelay() time.Duration

	// AdaptiveDelay returns the pause to apply after a fetch that took
	// lastResponse: max(CrawlDelay, 2*lastResponse) plus jitter.
	AdaptiveDelay(lastResponse time.Duration) time.Duration

	// Sitemaps returns the sitemap URLs declared by the rules.
	Sitemaps() []string
}

// IgnoreFilter reports whether a URL is excluded by user patterns.
type IgnoreFilter interface {
	ShouldIgnore(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from sitemap documents.
type SitemapService interface {
	// DiscoverURLs fetches the given sitemaps, resolving sitemap indexes
	// recursively, and returns the page URLs they list.
	DiscoverURLs(ctx context.Context, sitemapURLs []string) ([]string, error)
}
