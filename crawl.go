package sitepdf

import (
	"context"
	"time"
)

// Crawl is the persisted result of a crawl: the URLs actually visited,
// in visit order.
type Crawl struct {
	ID        string    `json:"id,omitempty"`
	StartURL  string    `json:"start_url"`
	Limit     int       `json:"limit,omitempty"` // 0 means unbounded
	URLs      []string  `json:"urls"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate returns an error if the crawl contains invalid fields.
func (c *Crawl) Validate() error {
	if c.StartURL == "" {
		return Errorf(EINVALID, "crawl start URL required")
	}
	if c.Limit < 0 {
		return Errorf(EINVALID, "crawl limit must not be negative")
	}
	return nil
}

// CrawlStore loads and saves a single crawl record.
type CrawlStore interface {
	// LoadCrawl reads the stored record.
	// Returns ENOTFOUND if there is none.
	LoadCrawl(ctx context.Context) (*Crawl, error)

	// SaveCrawl writes the record, replacing any previous one.
	SaveCrawl(ctx context.Context, crawl *Crawl) error
}

// CrawlService represents a service for managing many crawl records.
type CrawlService interface {
	// CreateCrawl stores a new crawl record and assigns its ID.
	CreateCrawl(ctx context.Context, crawl *Crawl) error

	// FindLatestCrawl returns the most recent crawl for a start URL and limit.
	// Returns ENOTFOUND if none exists.
	FindLatestCrawl(ctx context.Context, startURL string, limit int) (*Crawl, error)

	// FindCrawls retrieves crawls matching the filter, newest first.
	FindCrawls(ctx context.Context, filter CrawlFilter) ([]*Crawl, error)
}

// CrawlFilter represents a filter for FindCrawls.
type CrawlFilter struct {
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
