// Package rod implements page rendering and fetching with a headless Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/ysmood/gson"
)

// DefaultRenderTimeout bounds navigation and printing of a single page.
const DefaultRenderTimeout = 60 * time.Second

// A4 paper size in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// DefaultCleanupSelectors lists page chrome removed before printing.
var DefaultCleanupSelectors = []string{
	"header",
	"footer",
	"nav",
	".menu",
	"#sidebar",
	".advertisement",
	".social-media-links",
}

// cleanupJS removes every element matching the given selectors.
const cleanupJS = `(selectors) => {
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach((el) => el.remove());
	}
}`

// Ensure Renderer implements sitepdf.Renderer at compile time.
var _ sitepdf.Renderer = (*Renderer)(nil)

// Renderer prints pages to A4 PDF documents.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager   *BrowserManager
	timeout   time.Duration
	selectors []string
	landscape bool
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithRenderTimeout sets the per-page timeout.
// Defaults to DefaultRenderTimeout (60s) if not specified.
func WithRenderTimeout(d time.Duration) RenderOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithCleanupSelectors replaces the selectors removed before printing.
// An empty list disables cleanup.
func WithCleanupSelectors(selectors []string) RenderOption {
	return func(r *Renderer) {
		r.selectors = selectors
	}
}

// WithLandscape prints pages in landscape orientation.
func WithLandscape(landscape bool) RenderOption {
	return func(r *Renderer) {
		r.landscape = landscape
	}
}

// NewRenderer creates a Renderer that opens pages through manager.
// The manager is not closed by the Renderer.
func NewRenderer(manager *BrowserManager, opts ...RenderOption) *Renderer {
	r := &Renderer{
		manager:   manager,
		timeout:   DefaultRenderTimeout,
		selectors: DefaultCleanupSelectors,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, strips page chrome and prints the page to PDF
// with backgrounds.
func (r *Renderer) Render(ctx context.Context, url string) (*sitepdf.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.manager.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}

	if len(r.selectors) > 0 {
		if _, err := page.Eval(cleanupJS, r.selectors); err != nil {
			return nil, fmt.Errorf("cleaning %s: %w", url, err)
		}
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:       r.landscape,
		PrintBackground: true,
		PaperWidth:      gson.Num(a4Width),
		PaperHeight:     gson.Num(a4Height),
	})
	if err != nil {
		return nil, fmt.Errorf("printing %s: %w", url, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading PDF of %s: %w", url, err)
	}

	return &sitepdf.Artifact{
		URL:  url,
		Data: data,
		Hash: crawl.ComputeHash(data),
	}, nil
}
