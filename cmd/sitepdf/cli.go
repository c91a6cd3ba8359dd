package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/bundle"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/gxjansen/sitepdf/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	DB      *sqlite.DB
	Crawls  sitepdf.CrawlService
	Crawler *crawl.Crawler
	Builder *bundle.Builder

	// Stored crawl the build renders, loaded while wiring. Nil means the
	// build crawls first.
	Source *sitepdf.Crawl
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a YAML file" type:"path" placeholder:"FILE"`
	DB      string          `name:"db" env:"SITEPDF_DB" help:"Path to the crawl database" type:"path"`
	Verbose bool            `short:"v" help:"Log every fetch, render and merge"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site and list the pages found"`
	Build  BuildCmd  `cmd:"" help:"Crawl a site and write its pages into PDF bundles"`
	Crawls CrawlsCmd `cmd:"" help:"List stored crawl records"`
}

// CrawlFlags are the options shared by commands that crawl.
type CrawlFlags struct {
	Limit        string `short:"l" default:"all" env:"SITEPDF_LIMIT" help:"Maximum number of pages to visit (N or all)"`
	IgnoreFile   string `default:".sitepdfignore" type:"path" help:"File with URL patterns to skip, one per line"`
	IgnoreAnchor string `default:"prefix" enum:"prefix,full" help:"Whether ignore patterns match a URL prefix or the whole URL (prefix, full)"`
	Sitemap      bool   `help:"Seed the crawl with URLs from sitemaps declared in robots.txt"`
	JS           bool   `name:"js" help:"Fetch pages with a headless browser so script-built links are found"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL string `arg:"" help:"Start URL (http or https)"`
	CrawlFlags
	Output string `short:"o" type:"path" help:"Write the crawl record to a JSON file"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	URL string `arg:"" help:"Start URL (http or https)"`
	CrawlFlags
	MaxSize     string        `default:"25MB" env:"SITEPDF_MAX_SIZE" help:"Bundle size ceiling (e.g. 25MB, 10MiB or unbounded)"`
	BatchSize   int           `default:"50" help:"Pages rendered per batch"`
	Concurrency int           `short:"c" default:"5" env:"SITEPDF_CONCURRENCY" help:"Concurrent renders per batch"`
	RPS         float64       `name:"rps" default:"2" help:"Render requests per second (0 disables)"`
	NoOptimize  bool          `help:"Keep rendered pages as printed"`
	From        string        `type:"path" help:"Build from a crawl record file instead of crawling"`
	Reuse       bool          `help:"Build from the latest stored crawl of this URL and limit if one exists"`
	OutDir      string        `default:"." type:"path" help:"Directory that receives the output folder"`
	Timeout     time.Duration `default:"60s" help:"Per-page render timeout"`
}

// CrawlsCmd is the "crawls" subcommand.
type CrawlsCmd struct {
	URL string `arg:"" optional:"" help:"Only show crawls of this start URL"`
}

// ParseLimit converts a --limit value into a page limit. "all" and
// "unbounded" return 0.
func ParseLimit(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "unbounded":
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, sitepdf.Errorf(sitepdf.EINVALID, "invalid limit %q: want a positive number or all", s)
	}
	return n, nil
}
