package crawl

import (
	"net/url"

	"github.com/gxjansen/sitepdf"
)

// Frontier holds the state of one crawl: a FIFO queue of discovered URLs,
// the set of URLs waiting in that queue and the set of URLs already
// visited. It is created once per crawl and is not safe for concurrent use.
type Frontier struct {
	host    string
	ignore  sitepdf.IgnoreFilter
	queue   []string
	pending map[string]struct{}
	visited map[string]struct{}
}

// NewFrontier creates an empty frontier scoped to the host of start.
// The ignore filter may be nil.
func NewFrontier(start *url.URL, ignore sitepdf.IgnoreFilter) *Frontier {
	return &Frontier{
		host:    start.Host,
		ignore:  ignore,
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Enqueue appends rawURL to the queue. It is a no-op returning false if the
// URL is already visited or pending, is on another host, or is ignored.
func (f *Frontier) Enqueue(rawURL string) bool {
	if _, ok := f.visited[rawURL]; ok {
		return false
	}
	if _, ok := f.pending[rawURL]; ok {
		return false
	}
	if !f.InScope(rawURL) {
		return false
	}
	if f.Ignored(rawURL) {
		return false
	}
	f.queue = append(f.queue, rawURL)
	f.pending[rawURL] = struct{}{}
	return true
}

// Pop removes and returns the head of the queue.
// The bool result is false if the queue is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.pending, u)
	return u, true
}

// Visit records rawURL as visited.
func (f *Frontier) Visit(rawURL string) {
	f.visited[rawURL] = struct{}{}
}

// Visited reports whether rawURL has been visited.
func (f *Frontier) Visited(rawURL string) bool {
	_, ok := f.visited[rawURL]
	return ok
}

// Pending reports whether rawURL is waiting in the queue.
func (f *Frontier) Pending(rawURL string) bool {
	_, ok := f.pending[rawURL]
	return ok
}

// InScope reports whether rawURL shares the start URL's authority.
func (f *Frontier) InScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == f.host
}

// Ignored reports whether the ignore filter excludes rawURL.
func (f *Frontier) Ignored(rawURL string) bool {
	return f.ignore != nil && f.ignore.ShouldIgnore(rawURL)
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// VisitedCount returns the number of visited URLs.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
