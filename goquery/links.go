// Package goquery implements link extraction using CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gxjansen/sitepdf"
)

// DefaultSelector matches every anchor with an href.
const DefaultSelector = "a[href]"

var _ sitepdf.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts same-host links from HTML documents.
type LinkExtractor struct {
	selector string
}

// Option configures a LinkExtractor.
type Option func(*LinkExtractor)

// WithSelector restricts extraction to anchors matched by selector,
// e.g. "main a[href]".
func WithSelector(selector string) Option {
	return func(e *LinkExtractor) {
		e.selector = selector
	}
}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor(opts ...Option) *LinkExtractor {
	e := &LinkExtractor{selector: DefaultSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractLinks parses html and returns the links on the same host as
// baseURL. Links are resolved against baseURL with fragments removed,
// deduplicated, and returned in document order.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "failed to parse HTML: %v", err)
	}

	// <base href> changes how relative links resolve.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(href); err == nil {
			base = base.ResolveReference(ref)
		}
	}
	self := sitepdf.NormalizeURL(nil, baseURL)

	seen := make(map[string]bool)
	var links []string

	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := sitepdf.NormalizeURL(base, strings.TrimSpace(href))
		if resolved == "" || resolved == self {
			return
		}

		if !isSameHost(base, resolved) {
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
