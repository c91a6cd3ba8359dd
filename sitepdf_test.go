package sitepdf_test

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/gxjansen/sitepdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitepdf.Errorf(sitepdf.ENOTFOUND, "crawl %q not found", "abc")

	assert.Equal(t, sitepdf.ENOTFOUND, sitepdf.ErrorCode(err))
	assert.Equal(t, "crawl \"abc\" not found", sitepdf.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading rules: %w", sitepdf.Errorf(sitepdf.EUNAVAILABLE, "robots.txt unreachable"))

	assert.Equal(t, sitepdf.EUNAVAILABLE, sitepdf.ErrorCode(err))
	assert.Equal(t, "robots.txt unreachable", sitepdf.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, sitepdf.EINTERNAL, sitepdf.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitepdf.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitepdf.ErrorCode(nil))
	assert.Empty(t, sitepdf.ErrorMessage(nil))
}

func TestParseStartURL(t *testing.T) {
	t.Parallel()

	t.Run("accepts http and https URLs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"https://example.com", "http://example.com:8080/docs/", "  https://example.com/a  "} {
			u, err := sitepdf.ParseStartURL(raw)
			require.NoError(t, err, raw)
			assert.NotEmpty(t, u.Host, raw)
		}
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "example.com", "ftp://example.com", "https://", "https://exa mple.com/%zz"} {
			_, err := sitepdf.ParseStartURL(raw)
			require.Error(t, err, raw)
			assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err), raw)
		}
	})
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/intro")
	require.NoError(t, err)

	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative path", "setup", "https://example.com/docs/setup"},
		{"root-relative path", "/blog/", "https://example.com/blog/"},
		{"fragment is dropped", "setup#install", "https://example.com/docs/setup"},
		{"fragment-only link resolves to the page", "#top", "https://example.com/docs/intro"},
		{"query is kept", "search?q=go", "https://example.com/docs/search?q=go"},
		{"absolute URL", "https://other.org/x", "https://other.org/x"},
		{"surrounding space", "  /a  ", "https://example.com/a"},
		{"unparseable", "http://[::1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitepdf.NormalizeURL(base, tt.href))
		})
	}

	t.Run("nil base keeps absolute URLs", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://example.com/a", sitepdf.NormalizeURL(nil, "https://example.com/a#b"))
	})
}

func TestParseAnchor(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]sitepdf.Anchor{
		"":        sitepdf.AnchorPrefix,
		"prefix":  sitepdf.AnchorPrefix,
		"FULL":    sitepdf.AnchorFull,
		" full  ": sitepdf.AnchorFull,
	} {
		got, err := sitepdf.ParseAnchor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := sitepdf.ParseAnchor("suffix")
	require.Error(t, err)
	assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))
}

func TestCrawl_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&sitepdf.Crawl{StartURL: "https://example.com"}).Validate())

	err := (&sitepdf.Crawl{}).Validate()
	assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))

	err = (&sitepdf.Crawl{StartURL: "https://example.com", Limit: -1}).Validate()
	assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))
}

func TestBundleGroup_URLs(t *testing.T) {
	t.Parallel()

	g := &sitepdf.BundleGroup{
		Index: 1,
		Members: []*sitepdf.Artifact{
			{URL: "https://example.com/", Data: make([]byte, 3)},
			{URL: "https://example.com/a", Data: make([]byte, 5)},
		},
	}

	assert.Equal(t, []string{"https://example.com/", "https://example.com/a"}, g.URLs())
	assert.Equal(t, int64(5), g.Members[1].Size())
}
