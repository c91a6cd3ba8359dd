package sitepdf

import (
	"context"
	"io"
)

// Artifact is the rendered document for one URL.
// Once handed to the assembler the producer must not modify it.
type Artifact struct {
	URL       string
	Position  int // index in the ordered URL list
	Data      []byte
	Hash      string
	Optimized bool
}

// Size returns the artifact size in bytes.
func (a *Artifact) Size() int64 {
	return int64(len(a.Data))
}

// BundleGroup is an ordered set of artifacts destined for one output bundle.
type BundleGroup struct {
	Index   int // 1-based, assigned in creation order
	Members []*Artifact
	Size    int64
}

// URLs returns the member URLs in group order.
func (g *BundleGroup) URLs() []string {
	urls := make([]string, len(g.Members))
	for i, m := range g.Members {
		urls[i] = m.URL
	}
	return urls
}

// Bundle is the merged output of a BundleGroup.
type Bundle struct {
	Index   int
	Data    []byte
	Pages   int
	Skipped []string // member URLs that could not be merged
}

// Renderer renders a URL into a document artifact.
type Renderer interface {
	// Render loads url and returns its rendered document.
	// Position is left for the caller to set.
	Render(ctx context.Context, url string) (*Artifact, error)
}

// Optimizer reduces the size of an artifact.
type Optimizer interface {
	// Optimize returns a new, usually smaller, artifact.
	// The input artifact is not modified.
	Optimize(ctx context.Context, a *Artifact) (*Artifact, error)
}

// Merger combines the members of a group into a single document.
type Merger interface {
	// Merge concatenates the group's members in order. Members that cannot
	// be read or contain no pages are skipped and listed in Bundle.Skipped.
	// A bundle with zero pages is returned when no member could be merged.
	Merge(ctx context.Context, group *BundleGroup) (*Bundle, error)
}

// BundleStore persists bundles with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type BundleStore interface {
	Save(ctx context.Context, name string, r io.Reader) (path string, err error)
	Commit() error
	Abort() error
}
