package main

import (
	"fmt"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/bundle"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/gxjansen/sitepdf/fs"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	limit, err := ParseLimit(c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return err
	}

	urls, err := c.urls(deps, limit)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages to render.")
	}

	store := deps.Builder.Store
	result, err := deps.Builder.Build(deps.Ctx, urls, buildProgress(deps))
	if err != nil {
		if abortErr := store.Abort(); abortErr != nil {
			fmt.Fprintf(deps.Stderr, "warning: cleaning up: %v\n", abortErr)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return err
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Rendered %d of %d pages (%d failed, %d optimized)\n",
		result.Rendered, len(urls), result.Failed, result.Optimized)
	fmt.Fprintf(deps.Stdout, "Wrote %d bundles", result.Bundles)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, " (%d skipped)", result.Skipped)
	}
	fmt.Fprintln(deps.Stdout)
	for _, f := range result.Files {
		fmt.Fprintf(deps.Stdout, "  %s\n", f)
	}

	return nil
}

// urls returns the pages to render: from --from, from the latest stored
// crawl with --reuse, or from a fresh crawl.
func (c *BuildCmd) urls(deps *Dependencies, limit int) ([]string, error) {
	record := deps.Source
	if record == nil {
		var err error
		if record, err = c.source(deps, limit); err != nil {
			return nil, err
		}
	}

	switch {
	case record == nil:
		crawled, err := runCrawl(deps, c.URL, limit)
		if err != nil {
			return nil, err
		}
		return crawled.URLs, nil
	case c.From != "":
		fmt.Fprintf(deps.Stdout, "Loaded %d pages from %s\n", len(record.URLs), c.From)
	default:
		fmt.Fprintf(deps.Stdout, "Reusing crawl %s from %s (%d pages)\n",
			record.ID, record.CreatedAt.Local().Format("2006-01-02 15:04"), len(record.URLs))
	}
	return record.URLs, nil
}

// source returns the stored crawl to build from: the --from file, or the
// latest matching crawl with --reuse. It returns nil when none applies and
// the build has to crawl.
func (c *BuildCmd) source(deps *Dependencies, limit int) (*sitepdf.Crawl, error) {
	if c.From != "" {
		record, err := fs.NewCrawlFile(c.From).LoadCrawl(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
			return nil, err
		}
		return record, nil
	}
	if !c.Reuse || deps.Crawls == nil {
		return nil, nil
	}

	record, err := deps.Crawls.FindLatestCrawl(deps.Ctx, c.URL, limit)
	switch {
	case err == nil:
		return record, nil
	case sitepdf.ErrorCode(err) == sitepdf.ENOTFOUND:
		return nil, nil
	default:
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
}

func buildProgress(deps *Dependencies) bundle.ProgressFunc {
	return func(event bundle.ProgressEvent) {
		switch event.Type {
		case bundle.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Rendering %d pages\n", event.Total)
		case bundle.ProgressRendered:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 70))
		case bundle.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] failed %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 70))
		case bundle.ProgressBundled:
			fmt.Fprintf(deps.Stdout, "  Wrote %s\n", event.Path)
		}
	}
}
