package pdfcpu

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/crawl"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Ensure Optimizer implements sitepdf.Optimizer at compile time.
var _ sitepdf.Optimizer = (*Optimizer)(nil)

// Optimizer shrinks PDF artifacts by removing redundant objects and
// compressing streams.
type Optimizer struct{}

// NewOptimizer creates a new Optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize returns an optimized copy of a. If optimization does not shrink
// the document the original bytes are kept.
func (o *Optimizer) Optimize(ctx context.Context, a *sitepdf.Artifact) (*sitepdf.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(a.Data), &buf, newConfiguration()); err != nil {
		return nil, fmt.Errorf("optimizing %s: %w", a.URL, err)
	}

	data := buf.Bytes()
	if len(data) >= len(a.Data) {
		data = a.Data
	}

	return &sitepdf.Artifact{
		URL:       a.URL,
		Position:  a.Position,
		Data:      data,
		Hash:      crawl.ComputeHash(data),
		Optimized: true,
	}, nil
}
