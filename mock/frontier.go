package mock

import (
	"context"
	"time"

	"github.com/gxjansen/sitepdf"
)

var _ sitepdf.Politeness = (*Politeness)(nil)

// Politeness is a mock implementation of sitepdf.Politeness.
type Politeness struct {
	CanFetchFn      func(url string) bool
	CrawlDelayFn    func() time.Duration
	AdaptiveDelayFn func(lastResponse time.Duration) time.Duration
	SitemapsFn      func() []string
}

func (p *Politeness) CanFetch(url string) bool {
	return p.CanFetchFn(url)
}

func (p *Politeness) CrawlDelay() time.Duration {
	return p.CrawlDelayFn()
}

func (p *Politeness) AdaptiveDelay(lastResponse time.Duration) time.Duration {
	return p.AdaptiveDelayFn(lastResponse)
}

func (p *Politeness) Sitemaps() []string {
	return p.SitemapsFn()
}

var _ sitepdf.IgnoreFilter = (*IgnoreFilter)(nil)

// IgnoreFilter is a mock implementation of sitepdf.IgnoreFilter.
type IgnoreFilter struct {
	ShouldIgnoreFn func(url string) bool
}

func (f *IgnoreFilter) ShouldIgnore(url string) bool {
	return f.ShouldIgnoreFn(url)
}

var _ sitepdf.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitepdf.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ sitepdf.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitepdf.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, sitemapURLs []string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, sitemapURLs []string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, sitemapURLs)
}
