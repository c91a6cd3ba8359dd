package rod

import (
	"context"
	"time"

	"github.com/gxjansen/sitepdf"
)

// DefaultFetchTimeout bounds loading a page for link discovery.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements sitepdf.Fetcher at compile time.
var _ sitepdf.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// It discovers links that only exist after JavaScript runs.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	owned   bool
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithManager shares an existing browser instead of launching a new one.
// A shared manager is not closed by Fetcher.Close.
func WithManager(m *BrowserManager) FetcherOption {
	return func(f *Fetcher) {
		f.manager = m
	}
}

// NewFetcher creates a new Fetcher. Unless WithManager is given it launches
// its own headless Chrome, and Close must be called when the Fetcher is no
// longer needed.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	if f.manager == nil {
		m, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = m
		f.owned = true
	}

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.NewPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources owned by the Fetcher.
func (f *Fetcher) Close() error {
	if !f.owned {
		return nil
	}
	return f.manager.Close()
}
