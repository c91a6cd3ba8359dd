// Package sitepdf turns a website into a set of merged PDF bundles.
// It crawls a site breadth-first within a single domain, honouring the
// site's robots.txt rules and pacing, renders every discovered page to
// PDF and packs the rendered pages into size-bounded bundles.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, pdfcpu/, robotstxt/).
package sitepdf

import (
	"net/url"
	"strings"
)

// UserAgent is the fixed client identifier sent with every request and
// matched against robots.txt groups.
const UserAgent = "sitepdf/1.0"

// Anchor controls how much of a URL an ignore pattern must match.
type Anchor string

const (
	// AnchorPrefix requires the pattern to match a prefix of the URL.
	AnchorPrefix Anchor = "prefix"
	// AnchorFull requires the pattern to match the entire URL.
	AnchorFull Anchor = "full"
)

// ParseAnchor converts a flag value into an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch Anchor(strings.ToLower(strings.TrimSpace(s))) {
	case "", AnchorPrefix:
		return AnchorPrefix, nil
	case AnchorFull:
		return AnchorFull, nil
	}
	return "", Errorf(EINVALID, "invalid ignore anchor %q: want %q or %q", s, AnchorPrefix, AnchorFull)
}

// NormalizeURL resolves href against base and returns its canonical form.
// The fragment is dropped; everything else is kept as resolved.
// Returns an empty string if href cannot be parsed.
func NormalizeURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	u := ref
	if base != nil {
		u = base.ResolveReference(ref)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// ParseStartURL validates a user-supplied start URL. The URL must declare
// an http or https scheme and a host.
func ParseStartURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return nil, Errorf(EINVALID, "invalid URL %q: include the protocol (http:// or https://)", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "invalid URL %q: missing host", raw)
	}
	return u, nil
}
