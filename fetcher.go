package sitepdf

import "context"

// Fetcher retrieves HTML from URLs for link discovery.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// LinkExtractor returns candidate links from a fetched page.
type LinkExtractor interface {
	// ExtractLinks parses html and returns absolute, canonical URLs on the
	// same host as baseURL, in document order and without duplicates.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
