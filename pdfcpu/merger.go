package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gxjansen/sitepdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Ensure Merger implements sitepdf.Merger at compile time.
var _ sitepdf.Merger = (*Merger)(nil)

// Merger concatenates the members of a bundle group into one PDF.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge concatenates the group's members in order. Members that pdfcpu
// cannot read, that have no pages, or that break the merge are left out
// and listed in Bundle.Skipped. When no member is usable the bundle has
// zero pages and no data.
func (m *Merger) Merge(ctx context.Context, group *sitepdf.BundleGroup) (*sitepdf.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle := &sitepdf.Bundle{Index: group.Index}
	var usable []member
	for _, a := range group.Members {
		n, err := PageCount(a.Data)
		if err != nil || n == 0 {
			bundle.Skipped = append(bundle.Skipped, a.URL)
			continue
		}
		usable = append(usable, member{url: a.URL, data: a.Data, pages: n})
	}

	if len(usable) == 0 {
		return bundle, nil
	}

	data, err := merge(usable)
	if err != nil {
		// Fold members in one by one so a single bad member only costs
		// itself.
		return mergeEach(ctx, bundle, usable)
	}
	bundle.Data = data
	for _, mem := range usable {
		bundle.Pages += mem.pages
	}
	return bundle, nil
}

type member struct {
	url   string
	data  []byte
	pages int
}

func merge(members []member) ([]byte, error) {
	if len(members) == 1 {
		return members[0].data, nil
	}
	readers := make([]io.ReadSeeker, len(members))
	for i, mem := range members {
		readers[i] = bytes.NewReader(mem.data)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, newConfiguration()); err != nil {
		return nil, fmt.Errorf("merging %d documents: %w", len(members), err)
	}
	return buf.Bytes(), nil
}

func mergeEach(ctx context.Context, bundle *sitepdf.Bundle, members []member) (*sitepdf.Bundle, error) {
	var acc *member
	for _, mem := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if acc == nil {
			acc = &member{data: mem.data, pages: mem.pages}
			continue
		}
		data, err := merge([]member{*acc, mem})
		if err != nil {
			bundle.Skipped = append(bundle.Skipped, mem.url)
			continue
		}
		acc.data = data
		acc.pages += mem.pages
	}
	bundle.Data = acc.data
	bundle.Pages = acc.pages
	return bundle, nil
}
