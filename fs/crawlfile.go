package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/gxjansen/sitepdf"
)

// Ensure CrawlFile implements sitepdf.CrawlStore at compile time.
var _ sitepdf.CrawlStore = (*CrawlFile)(nil)

// CrawlFile stores a single crawl record as a JSON file.
type CrawlFile struct {
	path string
}

// NewCrawlFile creates a CrawlFile at path.
func NewCrawlFile(path string) *CrawlFile {
	return &CrawlFile{path: path}
}

// Path returns the file path.
func (f *CrawlFile) Path() string {
	return f.path
}

// LoadCrawl reads the crawl record.
// Returns ENOTFOUND if the file does not exist.
func (f *CrawlFile) LoadCrawl(ctx context.Context) (*sitepdf.Crawl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitepdf.Errorf(sitepdf.ENOTFOUND, "crawl file %s not found", f.path)
	} else if err != nil {
		return nil, err
	}

	var c sitepdf.Crawl
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, sitepdf.Errorf(sitepdf.EINVALID, "invalid crawl file %s: %v", f.path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.URLs == nil {
		c.URLs = []string{}
	}
	return &c, nil
}

// SaveCrawl writes the crawl record, replacing the file atomically.
func (f *CrawlFile) SaveCrawl(ctx context.Context, crawl *sitepdf.Crawl) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := crawl.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(crawl, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
