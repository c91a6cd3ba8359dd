package glob_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		anchor  sitepdf.Anchor
		url     string
		want    bool
	}{
		{"prefix matches start of URL", "https://example.com/blog", sitepdf.AnchorPrefix, "https://example.com/blog/2024/post", true},
		{"prefix does not match in the middle", "blog", sitepdf.AnchorPrefix, "https://example.com/blog", false},
		{"wildcard spans slashes", "https://example.com/*/print", sitepdf.AnchorPrefix, "https://example.com/a/b/print?x=1", true},
		{"leading wildcard finds substrings", "*logout", sitepdf.AnchorPrefix, "https://example.com/account/logout", true},
		{"full anchor with trailing wildcard", "https://example.com/tag/*", sitepdf.AnchorFull, "https://example.com/tag/go", true},
		{"full anchor requires whole match", "https://example.com/tag", sitepdf.AnchorFull, "https://example.com/tag/go", false},
		{"question mark is literal", "https://example.com/search?", sitepdf.AnchorPrefix, "https://example.com/searchX", false},
		{"brackets are literal", "https://example.com/[draft]", sitepdf.AnchorPrefix, "https://example.com/[draft]/1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, err := glob.Compile(tt.pattern, tt.anchor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Match(tt.url))
		})
	}
}

func TestCompile_DefaultsToPrefixAnchor(t *testing.T) {
	t.Parallel()

	rule, err := glob.Compile("https://example.com/a", "")
	require.NoError(t, err)

	assert.Equal(t, sitepdf.AnchorPrefix, rule.Anchor)
	assert.True(t, rule.Match("https://example.com/abc"))
}

func TestReadPatterns_SkipsCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	input := "# comment\n\n  https://example.com/tag/*  \n#another\n*.zip\n"

	patterns, err := glob.ReadPatterns(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/tag/*", "*.zip"}, patterns)
}

func TestLoadIgnoreFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty filter", func(t *testing.T) {
		t.Parallel()

		f, err := glob.LoadIgnoreFile(filepath.Join(t.TempDir(), "nope"), sitepdf.AnchorPrefix)

		require.NoError(t, err)
		assert.Equal(t, 0, f.Len())
		assert.False(t, f.ShouldIgnore("https://example.com/"))
	})

	t.Run("compiles every pattern in the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ignore")
		require.NoError(t, os.WriteFile(path, []byte("https://example.com/private\n# skip\n*/feed\n"), 0o644))

		f, err := glob.LoadIgnoreFile(path, sitepdf.AnchorPrefix)

		require.NoError(t, err)
		assert.Equal(t, 2, f.Len())
		assert.True(t, f.ShouldIgnore("https://example.com/private/page"))
		assert.True(t, f.ShouldIgnore("https://example.com/blog/feed"))
		assert.False(t, f.ShouldIgnore("https://example.com/docs"))
	})
}

func TestIgnoreFilter_NilIgnoresNothing(t *testing.T) {
	t.Parallel()

	var f *glob.IgnoreFilter
	assert.False(t, f.ShouldIgnore("https://example.com/"))
}
