package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gxjansen/sitepdf"
	"github.com/gxjansen/sitepdf/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Bundle Storage
// The store uses a temp directory for atomic updates

func TestBundleStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewBundleStore(base, "example.com_pdfs")

	// When I save a bundle
	path, err := store.Save(context.Background(), "example.com_complete_part001.pdf", strings.NewReader("%PDF-1.4"))

	// Then the returned path points into the final directory
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "example.com_pdfs", "example.com_complete_part001.pdf"), path)

	// And the file exists in the temp directory only
	data, err := os.ReadFile(filepath.Join(base, "example.com_pdfs.tmp", "example.com_complete_part001.pdf"))
	require.NoError(t, err, "file should exist in temp directory")
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestBundleStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with a previous output and a new saved bundle
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "out"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "out", "stale.pdf"), []byte("old"), 0644))

	store := fs.NewBundleStore(base, "out")
	path, err := store.Save(context.Background(), "new.pdf", strings.NewReader("new"))
	require.NoError(t, err)

	// When I commit
	require.NoError(t, store.Commit())

	// Then the new bundle is in place
	_, err = os.Stat(path)
	require.NoError(t, err, "file should exist in final directory after commit")

	// And the previous output is replaced
	_, err = os.Stat(filepath.Join(base, "out", "stale.pdf"))
	assert.True(t, os.IsNotExist(err), "stale output should be removed")

	// And temp directory is gone
	_, err = os.Stat(filepath.Join(base, "out.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestBundleStore_CommitWithoutBundlesCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewBundleStore(base, "out")

	require.NoError(t, store.Commit())

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBundleStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with saved bundles and an existing output
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "out"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "out", "keep.pdf"), []byte("old"), 0644))

	store := fs.NewBundleStore(base, "out")
	_, err := store.Save(context.Background(), "a.pdf", strings.NewReader("a"))
	require.NoError(t, err)

	// When I abort
	require.NoError(t, store.Abort())

	// Then the temp directory is removed
	_, err = os.Stat(filepath.Join(base, "out.tmp"))
	assert.True(t, os.IsNotExist(err))

	// And the previous output is untouched
	_, err = os.Stat(filepath.Join(base, "out", "keep.pdf"))
	assert.NoError(t, err)
}

func TestBundleStore_DiscardsLeftoversFromInterruptedRun(t *testing.T) {
	t.Parallel()

	// Given a run that saved three parts and was killed before Abort
	base := t.TempDir()
	old := fs.NewBundleStore(base, "out")
	for _, name := range []string{"p_part001.pdf", "p_part002.pdf", "p_part003.pdf"} {
		_, err := old.Save(context.Background(), name, strings.NewReader("old"))
		require.NoError(t, err)
	}

	// When a new run saves a single part and commits
	store := fs.NewBundleStore(base, "out")
	_, err := store.Save(context.Background(), "p_part001.pdf", strings.NewReader("new"))
	require.NoError(t, err)
	require.NoError(t, store.Commit())

	// Then only the new run's bundle is published
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"p_part001.pdf"}, names)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "p_part001.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestBundleStore_CommitWithoutBundlesDropsLeftovers(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "out.tmp"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "out.tmp", "stale.pdf"), []byte("old"), 0644))

	store := fs.NewBundleStore(base, "out")
	require.NoError(t, store.Commit())

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBundleStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store := fs.NewBundleStore(t.TempDir(), "out")

	for _, name := range []string{"", "..", "../etc/passwd", "sub/a.pdf", `sub\a.pdf`} {
		_, err := store.Save(context.Background(), name, strings.NewReader("x"))
		require.Error(t, err, "name %q should be rejected", name)
		assert.Equal(t, sitepdf.EINVALID, sitepdf.ErrorCode(err))
	}
}

func TestNaming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", fs.DomainName("example.com"))
	assert.Equal(t, "localhost_8080", fs.DomainName("localhost:8080"))
	assert.Equal(t, "example.com_pdfs", fs.OutputDirName("example.com"))
	assert.Equal(t, "example.com_complete", fs.BaseName("example.com", 0))
	assert.Equal(t, "example.com_complete_25", fs.BaseName("example.com", 25))
}
