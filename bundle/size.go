package bundle

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gxjansen/sitepdf"
)

// MinBundleSize is the smallest accepted bundle ceiling.
const MinBundleSize = humanize.MByte

// ParseSize parses a bundle ceiling. "unbounded" and "none" return 0.
// A bare number is taken as megabytes; otherwise units such as "25MB" or
// "10MiB" are accepted. Ceilings below MinBundleSize are rejected.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "unbounded", "none":
		return 0, nil
	case "":
		return 0, sitepdf.Errorf(sitepdf.EINVALID, "bundle size required")
	}

	var n uint64
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, sitepdf.Errorf(sitepdf.EINVALID, "bundle size must be positive: %s", s)
		}
		b := f * humanize.MByte
		if b >= math.MaxInt64 {
			return 0, sitepdf.Errorf(sitepdf.EINVALID, "bundle size too large: %s", s)
		}
		n = uint64(b)
	} else {
		n, err = humanize.ParseBytes(s)
		if err != nil {
			return 0, sitepdf.Errorf(sitepdf.EINVALID, "invalid bundle size %q", s)
		}
		if n > math.MaxInt64 {
			return 0, sitepdf.Errorf(sitepdf.EINVALID, "bundle size too large: %s", s)
		}
	}

	if n < MinBundleSize {
		return 0, sitepdf.Errorf(sitepdf.EINVALID, "bundle size must be at least %s, got %s",
			humanize.Bytes(MinBundleSize), humanize.Bytes(n))
	}
	return int64(n), nil
}
