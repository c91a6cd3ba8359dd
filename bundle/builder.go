package bundle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/crawl"
	"golang.org/x/sync/errgroup"
)

// Builder defaults.
const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 5
)

// NameFunc returns the file name for the bundle with the given index.
type NameFunc func(index int) string

// PartNames names bundles "<base>_part001.pdf", "<base>_part002.pdf", ...
func PartNames(base string) NameFunc {
	return func(index int) string {
		return fmt.Sprintf("%s_part%03d.pdf", base, index)
	}
}

// SingleName names every bundle "<base>.pdf". It is meant for unbounded
// builds, which produce at most one bundle.
func SingleName(base string) NameFunc {
	return func(int) string {
		return base + ".pdf"
	}
}

// Builder renders an ordered URL list into bundles.
type Builder struct {
	Renderer  sitepdf.Renderer
	Optimizer sitepdf.Optimizer // optional
	Merger    sitepdf.Merger
	Store     sitepdf.BundleStore
	Limiter   sitepdf.DomainLimiter // optional

	BatchSize     int
	Concurrency   int
	MaxBundleSize int64 // <= 0 means unbounded
	RetryDelays   []time.Duration
	Name          NameFunc

	Logger *slog.Logger
}

// Result holds the outcome of a build.
type Result struct {
	Rendered  int
	Failed    int
	Optimized int
	Bundles   int
	Skipped   int
	Files     []string
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRendered
	ProgressFailed
	ProgressBundled
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// renderResult holds the outcome of rendering a single URL.
type renderResult struct {
	artifact *sitepdf.Artifact
	err      error
}

// Build renders urls in batches, folds the artifacts in URL order into
// groups and writes one bundle per group. The progress callback, if
// provided, receives events as the build proceeds.
//
// Render, optimize and merge failures are logged and do not stop the
// build; a group that cannot be merged is skipped and its index stays
// consumed. Store errors abort it.
func (b *Builder) Build(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	name := b.Name
	if name == nil {
		if b.MaxBundleSize > 0 {
			name = PartNames("bundle")
		} else {
			name = SingleName("bundle")
		}
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	result := &Result{}
	packer := NewPacker(b.MaxBundleSize)
	total := len(urls)
	var completed int

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)

		results := b.renderBatch(ctx, urls[start:end], start, logger)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, r := range results {
			completed++
			u := urls[start+i]
			if r.err != nil {
				result.Failed++
				logger.Warn("render failed", "url", u, "err", r.err)
				progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: u, Error: r.err})
				continue
			}
			result.Rendered++
			progress(ProgressEvent{Type: ProgressRendered, Completed: completed, Total: total, URL: u})

			a := b.optimize(ctx, r.artifact, logger)
			if a.Optimized {
				result.Optimized++
			}

			if g := packer.Add(a); g != nil {
				if err := b.flush(ctx, g, name, result, logger, progress); err != nil {
					return nil, err
				}
			}
		}
	}

	if g := packer.Flush(); g != nil {
		if err := b.flush(ctx, g, name, result, logger, progress); err != nil {
			return nil, err
		}
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	return result, nil
}

// renderBatch renders batch with bounded concurrency and returns one result
// per URL in batch order. offset is the position of batch[0] in the full
// URL list.
func (b *Builder) renderBatch(ctx context.Context, batch []string, offset int, logger *slog.Logger) []renderResult {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]renderResult, len(batch))

	// Tasks never return an error so one failure cannot cancel its siblings.
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range batch {
		g.Go(func() error {
			a, err := b.render(ctx, u, logger)
			if err == nil {
				a.Position = offset + i
			}
			results[i] = renderResult{artifact: a, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *Builder) render(ctx context.Context, rawURL string, logger *slog.Logger) (*sitepdf.Artifact, error) {
	if b.Limiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := b.Limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}

	logf := func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
	return crawl.Retry(ctx, rawURL, b.RetryDelays, logf, func(ctx context.Context) (*sitepdf.Artifact, error) {
		return b.Renderer.Render(ctx, rawURL)
	})
}

// optimize returns the optimized artifact, or a unchanged if there is no
// optimizer or optimization fails.
func (b *Builder) optimize(ctx context.Context, a *sitepdf.Artifact, logger *slog.Logger) *sitepdf.Artifact {
	if b.Optimizer == nil {
		return a
	}
	opt, err := b.Optimizer.Optimize(ctx, a)
	if err != nil {
		logger.Warn("optimize failed", "url", a.URL, "err", err)
		return a
	}
	opt.Position = a.Position
	return opt
}

// flush merges g and stores the bundle. A group that fails to merge or
// yields no pages is skipped without writing a file; its index stays
// consumed.
func (b *Builder) flush(ctx context.Context, g *sitepdf.BundleGroup, name NameFunc, result *Result, logger *slog.Logger, progress ProgressFunc) error {
	bundle, err := b.Merger.Merge(ctx, g)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		result.Skipped++
		logger.Warn("bundle skipped", "bundle", g.Index, "members", len(g.Members), "reason", "merge failed", "err", err)
		return nil
	}
	for _, u := range bundle.Skipped {
		logger.Warn("merge skipped member", "bundle", g.Index, "url", u)
	}

	if bundle.Pages == 0 {
		result.Skipped++
		logger.Warn("bundle skipped", "bundle", g.Index, "members", len(g.Members), "reason", "no pages")
		return nil
	}

	path, err := b.Store.Save(ctx, name(g.Index), bytes.NewReader(bundle.Data))
	if err != nil {
		return fmt.Errorf("save bundle %d: %w", g.Index, err)
	}
	result.Bundles++
	result.Files = append(result.Files, path)
	logger.Info("bundle written",
		"bundle", g.Index,
		"path", path,
		"pages", bundle.Pages,
		"members", len(g.Members),
		"size", crawl.FormatBytes(int64(len(bundle.Data))),
	)
	progress(ProgressEvent{Type: ProgressBundled, Path: path})
	return nil
}
