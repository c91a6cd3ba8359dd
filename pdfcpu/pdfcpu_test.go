package pdfcpu_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPDF returns a minimal valid PDF document with the given number of
// blank A4 pages.
func newPDF(t *testing.T, pages int) []byte {
	t.Helper()

	var objs []string
	kids := make([]string, pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	)
	for range pages {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func artifact(url string, data []byte) *sitepdf.Artifact {
	return &sitepdf.Artifact{URL: url, Data: data}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	n, err := pdfcpu.PageCount(newPDF(t, 3))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMerger_Merge(t *testing.T) {
	t.Parallel()

	t.Run("concatenates members in order", func(t *testing.T) {
		t.Parallel()

		group := &sitepdf.BundleGroup{
			Index: 4,
			Members: []*sitepdf.Artifact{
				artifact("https://example.com/a", newPDF(t, 1)),
				artifact("https://example.com/b", newPDF(t, 2)),
			},
		}

		b, err := pdfcpu.NewMerger().Merge(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 4, b.Index)
		assert.Equal(t, 3, b.Pages)
		assert.Empty(t, b.Skipped)
		n, err := pdfcpu.PageCount(b.Data)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("skips unreadable members", func(t *testing.T) {
		t.Parallel()

		group := &sitepdf.BundleGroup{
			Index: 1,
			Members: []*sitepdf.Artifact{
				artifact("https://example.com/a", newPDF(t, 1)),
				artifact("https://example.com/broken", []byte("not a pdf")),
				artifact("https://example.com/c", newPDF(t, 1)),
			},
		}

		b, err := pdfcpu.NewMerger().Merge(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 2, b.Pages)
		assert.Equal(t, []string{"https://example.com/broken"}, b.Skipped)
	})

	t.Run("single readable member is passed through", func(t *testing.T) {
		t.Parallel()

		data := newPDF(t, 2)
		group := &sitepdf.BundleGroup{
			Index:   1,
			Members: []*sitepdf.Artifact{artifact("https://example.com/a", data)},
		}

		b, err := pdfcpu.NewMerger().Merge(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 2, b.Pages)
		assert.Equal(t, data, b.Data)
	})

	t.Run("no readable members yields an empty bundle", func(t *testing.T) {
		t.Parallel()

		group := &sitepdf.BundleGroup{
			Index: 2,
			Members: []*sitepdf.Artifact{
				artifact("https://example.com/a", []byte("garbage")),
				artifact("https://example.com/b", nil),
			},
		}

		b, err := pdfcpu.NewMerger().Merge(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 2, b.Index)
		assert.Zero(t, b.Pages)
		assert.Nil(t, b.Data)
		assert.Len(t, b.Skipped, 2)
	})
}

func TestOptimizer_Optimize(t *testing.T) {
	t.Parallel()

	t.Run("returns a valid optimized copy", func(t *testing.T) {
		t.Parallel()

		in := &sitepdf.Artifact{URL: "https://example.com/a", Position: 7, Data: newPDF(t, 2)}

		out, err := pdfcpu.NewOptimizer().Optimize(context.Background(), in)

		require.NoError(t, err)
		assert.True(t, out.Optimized)
		assert.Equal(t, 7, out.Position)
		assert.Equal(t, in.URL, out.URL)
		assert.LessOrEqual(t, out.Size(), in.Size())
		assert.Len(t, out.Hash, 16)
		assert.False(t, in.Optimized, "input must not be modified")

		n, err := pdfcpu.PageCount(out.Data)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("returns error for invalid input", func(t *testing.T) {
		t.Parallel()

		_, err := pdfcpu.NewOptimizer().Optimize(context.Background(), artifact("https://example.com/x", []byte("nope")))

		require.Error(t, err)
	})
}
