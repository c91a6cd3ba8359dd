package main

import (
	"fmt"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	limit, err := ParseLimit(c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return err
	}

	record, err := runCrawl(deps, c.URL, limit)
	if err != nil {
		return err
	}

	for _, u := range record.URLs {
		fmt.Fprintln(deps.Stdout, u)
	}

	if c.Output != "" {
		if err := fs.NewCrawlFile(c.Output).SaveCrawl(deps.Ctx, record); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved crawl to %s\n", c.Output)
	}

	return nil
}

// runCrawl crawls rawURL and stores the record. A record that cannot be
// stored is reported but does not fail the crawl.
func runCrawl(deps *Dependencies, rawURL string, limit int) (*sitepdf.Crawl, error) {
	if deps.Crawler == nil {
		err := sitepdf.Errorf(sitepdf.EINTERNAL, "crawler not configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}

	fmt.Fprintf(deps.Stdout, "Crawling %s\n", rawURL)
	record, err := deps.Crawler.Run(deps.Ctx, rawURL, limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	fmt.Fprintf(deps.Stdout, "  Found %d pages\n", len(record.URLs))

	if deps.Crawls != nil {
		if err := deps.Crawls.CreateCrawl(deps.Ctx, record); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: crawl not stored: %s\n", sitepdf.ErrorMessage(err))
		}
	}

	return record, nil
}
