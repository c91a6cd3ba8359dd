package mock

import (
	"context"
	"io"

	"github.com/gxjansen/sitepdf"
)

var _ sitepdf.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of sitepdf.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*sitepdf.Artifact, error)
}

func (r *Renderer) Render(ctx context.Context, url string) (*sitepdf.Artifact, error) {
	return r.RenderFn(ctx, url)
}

var _ sitepdf.Optimizer = (*Optimizer)(nil)

// Optimizer is a mock implementation of sitepdf.Optimizer.
type Optimizer struct {
	OptimizeFn func(ctx context.Context, a *sitepdf.Artifact) (*sitepdf.Artifact, error)
}

func (o *Optimizer) Optimize(ctx context.Context, a *sitepdf.Artifact) (*sitepdf.Artifact, error) {
	return o.OptimizeFn(ctx, a)
}

var _ sitepdf.Merger = (*Merger)(nil)

// Merger is a mock implementation of sitepdf.Merger.
type Merger struct {
	MergeFn func(ctx context.Context, group *sitepdf.BundleGroup) (*sitepdf.Bundle, error)
}

func (m *Merger) Merge(ctx context.Context, group *sitepdf.BundleGroup) (*sitepdf.Bundle, error) {
	return m.MergeFn(ctx, group)
}

var _ sitepdf.BundleStore = (*BundleStore)(nil)

// BundleStore is a mock implementation of sitepdf.BundleStore.
type BundleStore struct {
	SaveFn   func(ctx context.Context, name string, r io.Reader) (string, error)
	CommitFn func() error
	AbortFn  func() error
}

func (s *BundleStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	return s.SaveFn(ctx, name, r)
}

func (s *BundleStore) Commit() error {
	return s.CommitFn()
}

func (s *BundleStore) Abort() error {
	return s.AbortFn()
}
