package mock

import (
	"context"

	"github.com/gxjansen/sitepdf"
)

var _ sitepdf.CrawlStore = (*CrawlStore)(nil)

// CrawlStore is a mock implementation of sitepdf.CrawlStore.
type CrawlStore struct {
	LoadCrawlFn func(ctx context.Context) (*sitepdf.Crawl, error)
	SaveCrawlFn func(ctx context.Context, crawl *sitepdf.Crawl) error
}

func (s *CrawlStore) LoadCrawl(ctx context.Context) (*sitepdf.Crawl, error) {
	return s.LoadCrawlFn(ctx)
}

func (s *CrawlStore) SaveCrawl(ctx context.Context, crawl *sitepdf.Crawl) error {
	return s.SaveCrawlFn(ctx, crawl)
}

var _ sitepdf.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of sitepdf.CrawlService.
type CrawlService struct {
	CreateCrawlFn     func(ctx context.Context, crawl *sitepdf.Crawl) error
	FindLatestCrawlFn func(ctx context.Context, startURL string, limit int) (*sitepdf.Crawl, error)
	FindCrawlsFn      func(ctx context.Context, filter sitepdf.CrawlFilter) ([]*sitepdf.Crawl, error)
}

func (s *CrawlService) CreateCrawl(ctx context.Context, crawl *sitepdf.Crawl) error {
	return s.CreateCrawlFn(ctx, crawl)
}

func (s *CrawlService) FindLatestCrawl(ctx context.Context, startURL string, limit int) (*sitepdf.Crawl, error) {
	return s.FindLatestCrawlFn(ctx, startURL, limit)
}

func (s *CrawlService) FindCrawls(ctx context.Context, filter sitepdf.CrawlFilter) ([]*sitepdf.Crawl, error) {
	return s.FindCrawlsFn(ctx, filter)
}
