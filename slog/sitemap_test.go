package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gxjansen/sitepdf/mock"
	sitepdfslog "github.com/gxjansen/sitepdf/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, sitemapURLs []string) ([]string, error) {
				return []string{"https://example.com/a", "https://example.com/b"}, nil
			},
		}

		svc := sitepdfslog.NewLoggingSitemapService(inner, newDebugLogger(&buf))
		urls, err := svc.DiscoverURLs(context.Background(), []string{"https://example.com/sitemap.xml"})

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "sitemap discovery")
		assert.Contains(t, output, "sitemaps=1")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, sitemapURLs []string) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := sitepdfslog.NewLoggingSitemapService(inner, newDebugLogger(&buf))
		_, err := svc.DiscoverURLs(context.Background(), nil)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"connection failed\"")
	})
}
