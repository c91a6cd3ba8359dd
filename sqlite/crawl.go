package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gxjansen/sitepdf"
)

// Compile-time interface verification.
var _ sitepdf.CrawlService = (*CrawlService)(nil)

// CrawlService implements sitepdf.CrawlService using SQLite.
type CrawlService struct {
	db *DB
}

// NewCrawlService creates a new CrawlService.
func NewCrawlService(db *DB) *CrawlService {
	return &CrawlService{db: db}
}

// CreateCrawl stores a crawl and its URLs in one transaction.
// The crawl receives a new ID, and CreatedAt is set if it is zero.
func (s *CrawlService) CreateCrawl(ctx context.Context, crawl *sitepdf.Crawl) error {
	if err := crawl.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	createdAt := crawl.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO crawls (id, start_url, crawl_limit, created_at)
		VALUES (?, ?, ?, ?)
	`, id, crawl.StartURL, crawl.Limit, formatTime(createdAt)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO crawl_urls (crawl_id, position, url) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range crawl.URLs {
		if _, err := stmt.ExecContext(ctx, id, i, u); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	crawl.ID = id
	crawl.CreatedAt = createdAt.UTC()
	return nil
}

// FindLatestCrawl returns the most recent crawl for a start URL and limit.
func (s *CrawlService) FindLatestCrawl(ctx context.Context, startURL string, limit int) (*sitepdf.Crawl, error) {
	var crawl sitepdf.Crawl
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, crawl_limit, created_at
		FROM crawls
		WHERE start_url = ? AND crawl_limit = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, startURL, limit).Scan(&crawl.ID, &crawl.StartURL, &crawl.Limit, &createdAt)

	if err == sql.ErrNoRows {
		return nil, sitepdf.Errorf(sitepdf.ENOTFOUND, "crawl not found")
	}
	if err != nil {
		return nil, err
	}

	if crawl.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if crawl.URLs, err = s.findURLs(ctx, crawl.ID); err != nil {
		return nil, err
	}

	return &crawl, nil
}

// FindCrawls retrieves crawls matching the filter, newest first.
func (s *CrawlService) FindCrawls(ctx context.Context, filter sitepdf.CrawlFilter) ([]*sitepdf.Crawl, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, crawl_limit, created_at FROM crawls WHERE 1=1")

	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crawls []*sitepdf.Crawl
	for rows.Next() {
		var crawl sitepdf.Crawl
		var createdAt string

		if err := rows.Scan(&crawl.ID, &crawl.StartURL, &crawl.Limit, &createdAt); err != nil {
			return nil, err
		}
		if crawl.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}

		crawls = append(crawls, &crawl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// URLs are loaded after the listing query; the pool has one connection.
	for _, crawl := range crawls {
		if crawl.URLs, err = s.findURLs(ctx, crawl.ID); err != nil {
			return nil, err
		}
	}

	return crawls, nil
}

// findURLs returns the URLs of a crawl in visit order.
func (s *CrawlService) findURLs(ctx context.Context, crawlID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url FROM crawl_urls WHERE crawl_id = ? ORDER BY position
	`, crawlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
