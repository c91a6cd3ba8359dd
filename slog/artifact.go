package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gxjansen/sitepdf"
)

// Ensure LoggingRenderer implements sitepdf.Renderer.
var _ sitepdf.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   sitepdf.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next sitepdf.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the artifact size.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (a *sitepdf.Artifact, err error) {
	defer func(begin time.Time) {
		var size int64
		if a != nil {
			size = a.Size()
		}
		logCall(ctx, r.logger, "render", begin, err,
			"url", url,
			"bytes", size,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Ensure LoggingOptimizer implements sitepdf.Optimizer.
var _ sitepdf.Optimizer = (*LoggingOptimizer)(nil)

// LoggingOptimizer wraps an Optimizer with debug logging.
type LoggingOptimizer struct {
	next   sitepdf.Optimizer
	logger *slog.Logger
}

// NewLoggingOptimizer creates a new LoggingOptimizer.
func NewLoggingOptimizer(next sitepdf.Optimizer, logger *slog.Logger) *LoggingOptimizer {
	return &LoggingOptimizer{next: next, logger: logger}
}

// Optimize delegates to the wrapped optimizer and logs the size change.
func (o *LoggingOptimizer) Optimize(ctx context.Context, in *sitepdf.Artifact) (out *sitepdf.Artifact, err error) {
	defer func(begin time.Time) {
		var after int64
		if out != nil {
			after = out.Size()
		}
		logCall(ctx, o.logger, "optimize", begin, err,
			"url", in.URL,
			"before", in.Size(),
			"after", after,
		)
	}(time.Now())
	return o.next.Optimize(ctx, in)
}

// Ensure LoggingMerger implements sitepdf.Merger.
var _ sitepdf.Merger = (*LoggingMerger)(nil)

// LoggingMerger wraps a Merger with debug logging.
type LoggingMerger struct {
	next   sitepdf.Merger
	logger *slog.Logger
}

// NewLoggingMerger creates a new LoggingMerger.
func NewLoggingMerger(next sitepdf.Merger, logger *slog.Logger) *LoggingMerger {
	return &LoggingMerger{next: next, logger: logger}
}

// Merge delegates to the wrapped merger and logs the page count.
func (m *LoggingMerger) Merge(ctx context.Context, group *sitepdf.BundleGroup) (b *sitepdf.Bundle, err error) {
	defer func(begin time.Time) {
		var pages, skipped int
		if b != nil {
			pages, skipped = b.Pages, len(b.Skipped)
		}
		logCall(ctx, m.logger, "merge", begin, err,
			"bundle", group.Index,
			"members", len(group.Members),
			"pages", pages,
			"skipped", skipped,
		)
	}(time.Now())
	return m.next.Merge(ctx, group)
}
