// Package fs provides file-based storage for bundles and crawl records.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gxjansen/sitepdf"
)

// Ensure BundleStore implements sitepdf.BundleStore at compile time.
var _ sitepdf.BundleStore = (*BundleStore)(nil)

// BundleStore implements sitepdf.BundleStore with atomic update semantics.
// Bundles are saved to a temporary directory, then moved atomically on Commit.
type BundleStore struct {
	baseDir string
	name    string

	// Guards the temp directory reset on first use.
	mu    sync.Mutex
	fresh bool
}

// NewBundleStore creates a new BundleStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewBundleStore(baseDir, name string) *BundleStore {
	return &BundleStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *BundleStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// prepare empties the temp directory the first time it is called, so files
// left by an interrupted earlier run are never committed with this one.
func (s *BundleStore) prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fresh {
		return nil
	}
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return fmt.Errorf("clearing %s: %w", s.tempDir(), err)
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	s.fresh = true
	return nil
}

// Dir returns the directory bundles end up in after Commit.
func (s *BundleStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes r to the temporary directory under name and returns the path
// the file will have once committed. name must be a plain file name.
func (s *BundleStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", sitepdf.Errorf(sitepdf.EINVALID, "invalid bundle name %q: path traversal not allowed", name)
	}

	if err := s.prepare(); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(s.tempDir(), name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return filepath.Join(s.Dir(), name), nil
}

// Commit replaces the output directory with the temporary one.
// An empty build leaves an empty output directory.
func (s *BundleStore) Commit() error {
	if err := s.prepare(); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}

	if err := os.Rename(s.tempDir(), s.Dir()); err != nil {
		return err
	}
	s.mu.Lock()
	s.fresh = false
	s.mu.Unlock()
	return nil
}

// Abort discards everything saved since the store was created.
func (s *BundleStore) Abort() error {
	s.mu.Lock()
	s.fresh = false
	s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}

// DomainName returns a file-system-safe form of host.
func DomainName(host string) string {
	return strings.NewReplacer(":", "_", "/", "_", `\`, "_").Replace(host)
}

// OutputDirName returns the name of the output directory for a domain.
func OutputDirName(domain string) string {
	return domain + "_pdfs"
}

// BaseName returns the base file name for a domain's bundles. A limit > 0
// is appended so differently limited builds do not overwrite each other.
func BaseName(domain string, limit int) string {
	base := domain + "_complete"
	if limit > 0 {
		base += "_" + strconv.Itoa(limit)
	}
	return base
}
