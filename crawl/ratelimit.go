package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/gxjansen/sitepdf"
	"golang.org/x/time/rate"
)

var _ sitepdf.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out render requests per host. Render workers run
// concurrently, and without it a batch would reach the site as one burst.
// Host keys are compared case-insensitively.
type DomainLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets up to n requests per host through without waiting.
// Defaults to 1.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		hosts: make(map[string]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit <= 0 {
		return ctx.Err()
	}
	return d.limiter(host).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	key := strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[key]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.hosts[key] = l
	}
	return l
}
