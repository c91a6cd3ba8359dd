package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/bundle"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/gxjansen/sitepdf/fs"
	"github.com/gxjansen/sitepdf/glob"
	"github.com/gxjansen/sitepdf/goquery"
	sitehttp "github.com/gxjansen/sitepdf/http"
	"github.com/gxjansen/sitepdf/pdfcpu"
	"github.com/gxjansen/sitepdf/robotstxt"
	"github.com/gxjansen/sitepdf/rod"
	siteslog "github.com/gxjansen/sitepdf/slog"
	"github.com/gxjansen/sitepdf/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitepdf"),
		kong.Description("Crawl a website and save its pages as size-bounded PDF bundles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(YAML, DefaultConfigFile),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitepdf --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITEPDF_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Crawls = sqlite.NewCrawlService(m.DB)

	// Wire command-specific dependencies based on command
	switch strings.Fields(kongCtx.Command())[0] {
	case "crawl":
		cleanup, err := m.wireCrawler(ctx, deps, cli.Crawl.URL, cli.Crawl.CrawlFlags, nil)
		if err != nil {
			return err
		}
		defer cleanup()

	case "build":
		cleanup, err := m.wireBuilder(ctx, deps, &cli.Build)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	return kongCtx.Run(deps)
}

// wireCrawler validates the crawl flags, loads the site's robots.txt and
// sets deps.Crawler. A nil manager means a --js crawl launches its own
// browser.
func (m *Main) wireCrawler(ctx context.Context, deps *Dependencies, rawURL string, flags CrawlFlags, manager *rod.BrowserManager) (func(), error) {
	if _, err := sitepdf.ParseStartURL(rawURL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	if _, err := ParseLimit(flags.Limit); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	anchor, err := sitepdf.ParseAnchor(flags.IgnoreAnchor)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	ignore, err := glob.LoadIgnoreFile(flags.IgnoreFile, anchor)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	if ignore.Len() > 0 {
		deps.Logger.Info("ignore patterns loaded", "count", ignore.Len(), "anchor", anchor)
	}

	httpFetcher := sitehttp.NewFetcher()
	gate, err := robotstxt.NewGate(ctx, httpFetcher.Client(), rawURL)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: the site's robots.txt must be reachable before crawling")
		return nil, fmt.Errorf("failed to load robots.txt: %w", err)
	}

	cleanup := func() {}
	var fetcher sitepdf.Fetcher = httpFetcher
	if flags.JS {
		var opts []rod.FetcherOption
		if manager != nil {
			opts = append(opts, rod.WithManager(manager))
		}
		rodFetcher, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
		cleanup = func() { _ = rodFetcher.Close() }
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:    siteslog.NewLoggingFetcher(fetcher, deps.Logger),
		Links:      goquery.NewLinkExtractor(),
		Gate:       gate,
		Ignore:     ignore,
		Sitemaps:   siteslog.NewLoggingSitemapService(sitehttp.NewSitemapService(httpFetcher.Client()), deps.Logger),
		UseSitemap: flags.Sitemap,
		Logger:     deps.Logger,
	}
	return cleanup, nil
}

// wireBuilder validates the build flags, loads the stored crawl named by
// --from or --reuse, launches the browser and sets deps.Builder. deps.Crawler
// is only wired when there is no stored crawl to build from.
func (m *Main) wireBuilder(ctx context.Context, deps *Dependencies, c *BuildCmd) (func(), error) {
	start, err := sitepdf.ParseStartURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	limit, err := ParseLimit(c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	maxSize, err := bundle.ParseSize(c.MaxSize)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}
	if err := validateBuildFlags(c); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitepdf.ErrorMessage(err))
		return nil, err
	}

	source, err := c.source(deps, limit)
	if err != nil {
		return nil, err
	}
	deps.Source = source

	manager, err := rod.NewBrowserManager()
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	cleanup := func() { _ = manager.Close() }

	if source == nil {
		crawlCleanup, err := m.wireCrawler(ctx, deps, c.URL, c.CrawlFlags, manager)
		if err != nil {
			cleanup()
			return nil, err
		}
		cleanup = func() {
			crawlCleanup()
			_ = manager.Close()
		}
	}

	dir, name := OutputNames(start, limit, source, maxSize)

	var optimizer sitepdf.Optimizer
	if !c.NoOptimize {
		optimizer = siteslog.NewLoggingOptimizer(pdfcpu.NewOptimizer(), deps.Logger)
	}
	var limiter sitepdf.DomainLimiter
	if c.RPS > 0 {
		limiter = crawl.NewDomainLimiter(c.RPS)
	}

	deps.Builder = &bundle.Builder{
		Renderer:      siteslog.NewLoggingRenderer(rod.NewRenderer(manager, rod.WithRenderTimeout(c.Timeout)), deps.Logger),
		Optimizer:     optimizer,
		Merger:        siteslog.NewLoggingMerger(pdfcpu.NewMerger(), deps.Logger),
		Store:         fs.NewBundleStore(c.OutDir, dir),
		Limiter:       limiter,
		RetryDelays:   crawl.DefaultRetryDelays(),
		BatchSize:     c.BatchSize,
		Concurrency:   c.Concurrency,
		MaxBundleSize: maxSize,
		Name:          name,
		Logger:        deps.Logger,
	}
	return cleanup, nil
}

// OutputNames returns the output directory name and bundle naming for a
// build of start with limit. When a stored crawl is rebuilt, its own start
// URL and limit name the output.
func OutputNames(start *url.URL, limit int, source *sitepdf.Crawl, maxSize int64) (string, bundle.NameFunc) {
	if source != nil {
		if u, err := sitepdf.ParseStartURL(source.StartURL); err == nil {
			start = u
		}
		limit = source.Limit
	}

	domain := fs.DomainName(start.Host)
	base := fs.BaseName(domain, limit)
	if maxSize > 0 {
		return fs.OutputDirName(domain), bundle.PartNames(base)
	}
	return fs.OutputDirName(domain), bundle.SingleName(base)
}

func validateBuildFlags(c *BuildCmd) error {
	switch {
	case c.BatchSize <= 0:
		return sitepdf.Errorf(sitepdf.EINVALID, "batch size must be positive")
	case c.Concurrency <= 0:
		return sitepdf.Errorf(sitepdf.EINVALID, "concurrency must be positive")
	case c.RPS < 0:
		return sitepdf.Errorf(sitepdf.EINVALID, "rps must not be negative")
	case c.Timeout <= 0:
		return sitepdf.Errorf(sitepdf.EINVALID, "timeout must be positive")
	case c.From != "" && c.Reuse:
		return sitepdf.Errorf(sitepdf.EINVALID, "--from and --reuse cannot be combined")
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitepdf.db"
	}
	return filepath.Join(home, ".sitepdf", "sitepdf.db")
}
