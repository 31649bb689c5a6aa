package resources

import (
	"context"
	"embed"
	"fmt"
	"path"
	"path/filepath"

	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

//go:embed data
var bundled embed.FS

// EmbeddedFetcher installs the copies of the bundles compiled into the binary.
type EmbeddedFetcher struct{}

// NewEmbeddedFetcher creates a fetcher that works without network access.
func NewEmbeddedFetcher() ports.ResourceFetcher {
	return EmbeddedFetcher{}
}

// Fetch copies the named bundle under root.
func (EmbeddedFetcher) Fetch(ctx context.Context, name, root string) error {
	b, err := LookupBundle(name)
	if err != nil {
		return err
	}

	for _, rel := range b.FilePaths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := bundled.ReadFile(path.Join("data", rel))
		if err != nil {
			return fmt.Errorf("bundled copy of %s: %w", rel, err)
		}
		if err := writeFileAtomic(filepath.Join(root, filepath.FromSlash(rel)), data); err != nil {
			return fmt.Errorf("install %s: %w", rel, err)
		}
	}
	return nil
}
