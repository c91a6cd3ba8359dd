package crawl_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/gxjansen/sitepdf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMocks holds the collaborators of a Crawler built by newTestCrawler.
type testMocks struct {
	Fetcher *mock.Fetcher
	Links   *mock.LinkExtractor
	Gate    *mock.Politeness
	Sleeps  *[]time.Duration
	Fetched *[]string
}

// newTestCrawler returns a crawler over an in-memory site where each key of
// site is a page and its value lists the links found on that page.
func newTestCrawler(site map[string][]string) (*crawl.Crawler, *testMocks) {
	var sleeps []time.Duration
	var fetched []string

	m := &testMocks{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				if _, ok := site[url]; !ok {
					return "", errors.New("404 not found")
				}
				return url, nil
			},
			CloseFn: func() error { return nil },
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(html string, _ string) ([]string, error) {
				return site[html], nil
			},
		},
		Gate: &mock.Politeness{
			CanFetchFn:   func(string) bool { return true },
			CrawlDelayFn: func() time.Duration { return time.Second },
			AdaptiveDelayFn: func(time.Duration) time.Duration {
				return 1500 * time.Millisecond
			},
			SitemapsFn: func() []string { return nil },
		},
		Sleeps:  &sleeps,
		Fetched: &fetched,
	}

	c := &crawl.Crawler{
		Fetcher: m.Fetcher,
		Links:   m.Links,
		Gate:    m.Gate,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	}
	return c, m
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("excludes cross-domain links", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCrawler(map[string][]string{
			"https://example.com/": {
				"https://example.com/a",
				"https://example.com/b",
				"https://other.com/c",
			},
			"https://example.com/a": nil,
			"https://example.com/b": nil,
		})

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
		}, result.URLs)
		assert.NotContains(t, result.URLs, "https://other.com/c")
	})

	t.Run("visits breadth-first", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCrawler(map[string][]string{
			"https://example.com/":    {"https://example.com/a", "https://example.com/b"},
			"https://example.com/a":   {"https://example.com/a/1"},
			"https://example.com/b":   {"https://example.com/b/1"},
			"https://example.com/a/1": nil,
			"https://example.com/b/1": nil,
		})

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a/1",
			"https://example.com/b/1",
		}, result.URLs)
	})

	t.Run("stops at the limit", func(t *testing.T) {
		t.Parallel()

		site := map[string][]string{}
		var links []string
		for _, p := range []string{"a", "b", "c", "d", "e", "f"} {
			u := "https://example.com/" + p
			links = append(links, u)
			site[u] = nil
		}
		site["https://example.com/"] = links
		c, m := newTestCrawler(site)

		result, err := c.Run(context.Background(), "https://example.com/", 3)

		require.NoError(t, err)
		assert.Len(t, result.URLs, 3)
		assert.Len(t, *m.Fetched, 3)
		assert.Equal(t, 3, result.Limit)
	})

	t.Run("never visits a URL twice", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":  {"https://example.com/a", "https://example.com/b", "https://example.com/"},
			"https://example.com/a": {"https://example.com/b", "https://example.com/"},
			"https://example.com/b": {"https://example.com/a"},
		})

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Len(t, result.URLs, 3)
		assert.ElementsMatch(t, result.URLs, *m.Fetched)
	})

	t.Run("never fetches ignored URLs", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":       {"https://example.com/blog/1", "https://example.com/docs"},
			"https://example.com/blog/1": nil,
			"https://example.com/docs":   nil,
		})
		c.Ignore = &mock.IgnoreFilter{
			ShouldIgnoreFn: func(u string) bool {
				return strings.HasPrefix(u, "https://example.com/blog")
			},
		}

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/", "https://example.com/docs"}, result.URLs)
		assert.NotContains(t, *m.Fetched, "https://example.com/blog/1")
	})

	t.Run("discards disallowed URLs", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":      {"https://example.com/admin", "https://example.com/docs"},
			"https://example.com/admin": nil,
			"https://example.com/docs":  nil,
		})
		m.Gate.CanFetchFn = func(u string) bool {
			return u != "https://example.com/admin"
		}

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/", "https://example.com/docs"}, result.URLs)
		assert.NotContains(t, *m.Fetched, "https://example.com/admin")
	})

	t.Run("disallowed start URL yields an empty crawl", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{"https://example.com/": nil})
		m.Gate.CanFetchFn = func(string) bool { return false }

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Empty(t, result.URLs)
		assert.Empty(t, *m.Fetched)
	})

	t.Run("fetch failure keeps the URL visited", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":   {"https://example.com/missing", "https://example.com/ok"},
			"https://example.com/ok": {"https://example.com/missing"},
		})

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/missing",
			"https://example.com/ok",
		}, result.URLs)
		assert.Len(t, *m.Fetched, 3, "failed URL must not be retried")
	})

	t.Run("pauses between fetches but not before the first", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":  {"https://example.com/a", "https://example.com/b"},
			"https://example.com/a": nil,
			"https://example.com/b": nil,
		})
		var observed []time.Duration
		m.Gate.AdaptiveDelayFn = func(last time.Duration) time.Duration {
			observed = append(observed, last)
			return 2 * time.Second
		}

		_, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *m.Sleeps)
		assert.Len(t, observed, 2)
	})

	t.Run("seeds the queue from sitemaps", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":       nil,
			"https://example.com/orphan": nil,
		})
		m.Gate.SitemapsFn = func() []string {
			return []string{"https://example.com/sitemap.xml"}
		}
		c.UseSitemap = true
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, sitemaps []string) ([]string, error) {
				assert.Equal(t, []string{"https://example.com/sitemap.xml"}, sitemaps)
				return []string{
					"https://example.com/orphan#top",
					"https://other.com/page",
				}, nil
			},
		}

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/", "https://example.com/orphan"}, result.URLs)
	})

	t.Run("sitemap failure does not stop the crawl", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{"https://example.com/": nil})
		m.Gate.SitemapsFn = func() []string { return []string{"https://example.com/sitemap.xml"} }
		c.UseSitemap = true
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, []string) ([]string, error) {
				return nil, errors.New("boom")
			},
		}

		result, err := c.Run(context.Background(), "https://example.com/", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/"}, result.URLs)
	})

	t.Run("returns error when context is canceled", func(t *testing.T) {
		t.Parallel()

		c, m := newTestCrawler(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})
		ctx, cancel := context.WithCancel(context.Background())
		m.Fetcher.FetchFn = func(context.Context, string) (string, error) {
			cancel()
			return "", context.Canceled
		}

		_, err := c.Run(ctx, "https://example.com/", 0)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns error when sleep is interrupted", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCrawler(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})
		c.Sleep = func(context.Context, time.Duration) error {
			return context.DeadlineExceeded
		}

		_, err := c.Run(context.Background(), "https://example.com/", 0)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("rejects invalid start URL", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCrawler(nil)

		_, err := c.Run(context.Background(), "example.com", 0)

		require.Error(t, err)
		assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))
	})

	t.Run("rejects negative limit", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCrawler(nil)

		_, err := c.Run(context.Background(), "https://example.com/", -1)

		require.Error(t, err)
		assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))
	})
}
