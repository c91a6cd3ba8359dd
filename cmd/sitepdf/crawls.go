package main

import (
	"fmt"

	"github.com/gxjansen/sitepdf"
)

// Run executes the crawls command.
func (c *CrawlsCmd) Run(deps *Dependencies) error {
	filter := sitepdf.CrawlFilter{}
	if c.URL != "" {
		filter.StartURL = &c.URL
	}

	crawls, err := deps.Crawls.FindCrawls(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return err
	}

	if len(crawls) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls found. Use 'sitepdf crawl' to create one.")
		return nil
	}

	for _, cr := range crawls {
		limit := "all"
		if cr.Limit > 0 {
			limit = fmt.Sprint(cr.Limit)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  limit=%s  %d pages\n",
			cr.ID, cr.CreatedAt.Local().Format("2006-01-02 15:04"), cr.StartURL, limit, len(cr.URLs))
	}

	return nil
}
