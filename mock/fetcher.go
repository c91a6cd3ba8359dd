package mock

import (
	"context"

	"github.com/gxjansen/sitepdf"
)

var _ sitepdf.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitepdf.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ sitepdf.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitepdf.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
