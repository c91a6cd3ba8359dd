// Package crawl provides breadth-first, politeness-constrained discovery
// of the pages of a single site.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/gxjansen/sitepdf"
)

// Reasons attached to discard log events.
const (
	DiscardDuplicate  = "duplicate"
	DiscardDisallowed = "disallowed"
	DiscardIgnored    = "ignored"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Crawler discovers the pages of a site. URLs are fetched strictly one at
// a time so that the site's pacing rules hold without central coordination.
type Crawler struct {
	Fetcher sitepdf.Fetcher
	Links   sitepdf.LinkExtractor
	Gate    sitepdf.Politeness
	Ignore  sitepdf.IgnoreFilter

	// Sitemaps, when set together with UseSitemap, seeds the queue with
	// the URLs listed in the sitemaps declared by the Gate.
	Sitemaps   sitepdf.SitemapService
	UseSitemap bool

	// Logger receives discard, visit and failure events.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Sleep applies the pause between fetches. Defaults to Sleep.
	Sleep SleepFunc
}

// Run crawls breadth-first from startURL until the queue is exhausted or,
// when limit > 0, until limit URLs have been visited. The result lists the
// visited URLs in visit order.
func (c *Crawler) Run(ctx context.Context, startURL string, limit int) (*sitepdf.Crawl, error) {
	start, err := sitepdf.ParseStartURL(startURL)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "limit must be positive or zero for unbounded")
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	frontier := NewFrontier(start, c.Ignore)
	seed := sitepdf.NormalizeURL(nil, start.String())
	frontier.Enqueue(seed)
	c.seedSitemaps(ctx, frontier, logger)

	result := &sitepdf.Crawl{
		StartURL: startURL,
		Limit:    limit,
		URLs:     []string{},
	}

	var fetched bool
	var lastResponse time.Duration

	for {
		if limit > 0 && frontier.VisitedCount() >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, ok := frontier.Pop()
		if !ok {
			break
		}

		if frontier.Visited(u) {
			logger.Debug("discard", "url", u, "reason", DiscardDuplicate)
			continue
		}
		if !c.Gate.CanFetch(u) {
			logger.Info("discard", "url", u, "reason", DiscardDisallowed)
			continue
		}
		if frontier.Ignored(u) {
			logger.Info("discard", "url", u, "reason", DiscardIgnored)
			continue
		}

		frontier.Visit(u)
		result.URLs = append(result.URLs, u)
		logger.Info("crawl visit",
			"url", u,
			"visited", frontier.VisitedCount(),
			"queued", frontier.Len(),
		)

		if fetched {
			if err := sleep(ctx, c.Gate.AdaptiveDelay(lastResponse)); err != nil {
				return nil, err
			}
		}

		begin := time.Now()
		html, err := c.Fetcher.Fetch(ctx, u)
		lastResponse = time.Since(begin)
		fetched = true
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("fetch failed", "url", u, "err", err)
			continue
		}

		links, err := c.Links.ExtractLinks(html, u)
		if err != nil {
			logger.Warn("link extraction failed", "url", u, "err", err)
			continue
		}
		for _, link := range links {
			frontier.Enqueue(link)
		}
	}

	result.CreatedAt = time.Now().UTC()
	return result, nil
}

// seedSitemaps enqueues the URLs listed in the gate's sitemaps.
// Sitemap failures are logged and otherwise ignored.
func (c *Crawler) seedSitemaps(ctx context.Context, frontier *Frontier, logger *slog.Logger) {
	if !c.UseSitemap || c.Sitemaps == nil {
		return
	}
	sitemaps := c.Gate.Sitemaps()
	if len(sitemaps) == 0 {
		return
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, sitemaps)
	if err != nil {
		logger.Warn("sitemap seeding failed", "err", err)
		return
	}

	var added int
	for _, u := range urls {
		if frontier.Enqueue(sitepdf.NormalizeURL(nil, u)) {
			added++
		}
	}
	logger.Info("sitemap seeding", "listed", len(urls), "queued", added)
}

// Sleep waits for d, returning early with the context's error if ctx is
// done first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
