package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// Store finds bundles installed under a local data directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) ports.ResourceLocator {
	return &Store{root: dir}
}

// Root returns the data directory.
func (s *Store) Root() string {
	return s.root
}

// Lookup returns the bundle directory when every bundle file is present.
func (s *Store) Lookup(name string) (string, error) {
	b, err := LookupBundle(name)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, filepath.FromSlash(b.Dir))
	for _, f := range b.Files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("resource %s not found: %w", name, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("resource %s: %s is a directory", name, p)
		}
	}
	return dir, nil
}

// DefaultDataDir returns the per-user cache directory used when no data
// directory is configured.
func DefaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "go_text_preprocessing")
	}
	return filepath.Join(os.TempDir(), "go_text_preprocessing")
}

// writeFileAtomic writes data to a temporary file next to p and renames it
// into place, so readers never observe a partial file.
func writeFileAtomic(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".fetch-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
