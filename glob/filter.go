// Package glob implements URL ignore rules compiled from wildcard patterns.
package glob

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/gxjansen/sitepdf"
)

// DefaultIgnoreFile is the pattern file read when no path is given.
const DefaultIgnoreFile = ".sitepdfignore"

// Ensure IgnoreFilter implements sitepdf.IgnoreFilter at compile time.
var _ sitepdf.IgnoreFilter = (*IgnoreFilter)(nil)

// Rule is a single compiled ignore pattern.
type Rule struct {
	Pattern string
	Anchor  sitepdf.Anchor
	g       glob.Glob
}

// Match reports whether the rule matches url.
func (r Rule) Match(url string) bool {
	return r.g.Match(url)
}

// IgnoreFilter excludes URLs matching any of its rules.
// The zero value ignores nothing.
type IgnoreFilter struct {
	rules []Rule
}

// Compile compiles a wildcard pattern. Every '*' matches any sequence of
// characters, including '/'; all other characters are literal.
// With AnchorPrefix the pattern only has to match the start of a URL.
func Compile(pattern string, anchor sitepdf.Anchor) (Rule, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	expr := strings.Join(parts, "*")
	if anchor != sitepdf.AnchorFull {
		anchor = sitepdf.AnchorPrefix
		expr += "*"
	}

	g, err := glob.Compile(expr)
	if err != nil {
		return Rule{}, sitepdf.Errorf(sitepdf.EINVALID, "invalid ignore pattern %q: %v", pattern, err)
	}
	return Rule{Pattern: pattern, Anchor: anchor, g: g}, nil
}

// NewIgnoreFilter compiles patterns into a filter.
func NewIgnoreFilter(patterns []string, anchor sitepdf.Anchor) (*IgnoreFilter, error) {
	f := &IgnoreFilter{}
	for _, p := range patterns {
		rule, err := Compile(p, anchor)
		if err != nil {
			return nil, err
		}
		f.rules = append(f.rules, rule)
	}
	return f, nil
}

// ReadPatterns reads one pattern per line. Blank lines and lines starting
// with '#' are skipped.
func ReadPatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore patterns: %w", err)
	}
	return patterns, nil
}

// LoadIgnoreFile reads and compiles the pattern file at path.
// A missing file is not an error and yields an empty filter.
func LoadIgnoreFile(path string, anchor sitepdf.Anchor) (*IgnoreFilter, error) {
	if path == "" {
		path = DefaultIgnoreFile
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &IgnoreFilter{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	patterns, err := ReadPatterns(f)
	if err != nil {
		return nil, err
	}
	return NewIgnoreFilter(patterns, anchor)
}

// ShouldIgnore reports whether any rule matches url.
func (f *IgnoreFilter) ShouldIgnore(url string) bool {
	if f == nil {
		return false
	}
	for _, r := range f.rules {
		if r.Match(url) {
			return true
		}
	}
	return false
}

// Len returns the number of rules.
func (f *IgnoreFilter) Len() int {
	return len(f.rules)
}
