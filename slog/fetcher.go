// Package slog provides logging decorators for sitepdf services.
//
// Decorators log one Debug record per call with its duration and error, so
// they stay silent unless verbose logging is enabled.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gxjansen/sitepdf"
)

// Ensure LoggingFetcher implements sitepdf.Fetcher.
var _ sitepdf.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   sitepdf.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitepdf.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, f.logger, "fetch", begin, err,
			"url", url,
			"bytes", len(html),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// logCall writes one Debug record for a decorated call. attrs come first,
// followed by the call duration and error.
func logCall(ctx context.Context, logger *slog.Logger, msg string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(begin), "err", err)
	logger.Log(ctx, slog.LevelDebug, msg, attrs...)
}
