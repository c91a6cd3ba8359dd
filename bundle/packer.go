// Package bundle assembles rendered artifacts into size-bounded bundles.
//
// Packer is the pure bin-packing fold. Builder drives rendering, optimization
// and merging around it.
package bundle

import "github.com/gxjansen/sitepdf"

// Packer folds an ordered stream of artifacts into groups whose cumulative
// size stays under a ceiling. Packing is first-fit sequential: a group is
// flushed as soon as the next artifact would overflow it, so page order is
// preserved within and across groups.
//
// A single artifact larger than the ceiling forms a group on its own.
type Packer struct {
	ceiling int64
	index   int
	current []*sitepdf.Artifact
	size    int64
}

// NewPacker returns a Packer with the given ceiling in bytes.
// A ceiling <= 0 means groups are unbounded.
func NewPacker(ceiling int64) *Packer {
	return &Packer{ceiling: ceiling, index: 1}
}

// Add appends a to the current group. If a does not fit, the current group
// is flushed first and returned; otherwise Add returns nil.
func (p *Packer) Add(a *sitepdf.Artifact) *sitepdf.BundleGroup {
	var flushed *sitepdf.BundleGroup
	s := a.Size()
	if p.ceiling > 0 && len(p.current) > 0 && p.size+s > p.ceiling {
		flushed = p.flush()
	}
	p.current = append(p.current, a)
	p.size += s
	return flushed
}

// Flush ends the stream and returns the final group, or nil if the current
// group is empty.
func (p *Packer) Flush() *sitepdf.BundleGroup {
	if len(p.current) == 0 {
		return nil
	}
	return p.flush()
}

// Next returns the index the next flushed group will receive.
func (p *Packer) Next() int {
	return p.index
}

func (p *Packer) flush() *sitepdf.BundleGroup {
	g := &sitepdf.BundleGroup{
		Index:   p.index,
		Members: p.current,
		Size:    p.size,
	}
	p.index++
	p.current = nil
	p.size = 0
	return g
}

// Pack folds artifacts into groups using a new Packer with the given ceiling.
func Pack(ceiling int64, artifacts []*sitepdf.Artifact) []*sitepdf.BundleGroup {
	p := NewPacker(ceiling)
	var groups []*sitepdf.BundleGroup
	for _, a := range artifacts {
		if g := p.Add(a); g != nil {
			groups = append(groups, g)
		}
	}
	if g := p.Flush(); g != nil {
		groups = append(groups, g)
	}
	return groups
}
