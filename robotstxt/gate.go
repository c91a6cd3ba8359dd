// Package robotstxt implements the politeness gate for a crawl using
// robots.txt exclusion rules.
package robotstxt

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/gxjansen/sitepdf"
	"github.com/temoto/robotstxt"
)

// DefaultCrawlDelay is used when robots.txt declares no Crawl-delay.
const DefaultCrawlDelay = 1 * time.Second

// Jitter bounds added on top of every adaptive delay.
const (
	minJitter = 500 * time.Millisecond
	maxJitter = 1500 * time.Millisecond
)

// disallowAll stands in for a robots.txt answered with 401 or 403.
const disallowAll = "User-agent: *\nDisallow: /\n"

// Ensure Gate implements sitepdf.Politeness at compile time.
var _ sitepdf.Politeness = (*Gate)(nil)

// Gate answers fetch permission and pacing questions for one domain.
// The rules are loaded once at construction and never refreshed.
// Gate is safe for concurrent use.
type Gate struct {
	data   *robotstxt.RobotsData
	agent  string
	delay  time.Duration
	jitter func() time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithJitter replaces the random jitter source. The function must return
// a value in [500ms, 1.5s).
func WithJitter(fn func() time.Duration) Option {
	return func(g *Gate) {
		g.jitter = fn
	}
}

// WithUserAgent overrides the client identifier matched against the rules.
// Defaults to sitepdf.UserAgent.
func WithUserAgent(agent string) Option {
	return func(g *Gate) {
		g.agent = agent
	}
}

// NewGate retrieves robots.txt for the host of startURL and builds a Gate
// from it. There is no allow-all fallback: if the rules cannot be
// retrieved, an EUNAVAILABLE error is returned and the crawl must not start.
// If client is nil, http.DefaultClient is used.
func NewGate(ctx context.Context, client *http.Client, startURL string, opts ...Option) (*Gate, error) {
	if client == nil {
		client = http.DefaultClient
	}

	start, err := sitepdf.ParseStartURL(startURL)
	if err != nil {
		return nil, err
	}
	robotsURL := start.ResolveReference(&url.URL{Path: "/robots.txt"})

	g := newGate(opts...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "invalid robots.txt URL %q: %v", robotsURL, err)
	}
	req.Header.Set("User-Agent", g.agent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EUNAVAILABLE, "fetching %s: %v", robotsURL, err)
	}
	defer resp.Body.Close()

	// FromResponse treats 4xx as allow-all and 5xx as disallow-all. A
	// robots.txt the site refuses to show us keeps the whole site closed.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		data, err := robotstxt.FromString(disallowAll)
		if err != nil {
			return nil, sitepdf.Errorf(sitepdf.EINTERNAL, "parsing disallow-all rules: %v", err)
		}
		return g.init(data), nil
	}
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EUNAVAILABLE, "reading %s: %v", robotsURL, err)
	}

	return g.init(data), nil
}

// Parse builds a Gate from the contents of a robots.txt file.
func Parse(body []byte, opts ...Option) (*Gate, error) {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "parsing robots.txt: %v", err)
	}
	return newGate(opts...).init(data), nil
}

func newGate(opts ...Option) *Gate {
	g := &Gate{
		agent:  sitepdf.UserAgent,
		jitter: randomJitter,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) init(data *robotstxt.RobotsData) *Gate {
	g.data = data
	g.delay = DefaultCrawlDelay
	if group := data.FindGroup(g.agent); group != nil && group.CrawlDelay > 0 {
		g.delay = group.CrawlDelay
	}
	return g
}

// CanFetch reports whether the rules permit the client to fetch rawURL.
// Unparsable URLs are never fetchable.
func (g *Gate) CanFetch(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return g.data.TestAgent(path, g.agent)
}

// CrawlDelay returns the declared Crawl-delay, or DefaultCrawlDelay.
func (g *Gate) CrawlDelay() time.Duration {
	return g.delay
}

// AdaptiveDelay returns max(CrawlDelay, 2*lastResponse) plus jitter, so the
// crawler backs off harder from slow servers.
func (g *Gate) AdaptiveDelay(lastResponse time.Duration) time.Duration {
	return max(g.delay, 2*lastResponse) + g.jitter()
}

// Sitemaps returns the Sitemap directives found in robots.txt.
func (g *Gate) Sitemaps() []string {
	return g.data.Sitemaps
}

func randomJitter() time.Duration {
	return minJitter + rand.N(maxJitter-minJitter)
}
