package ports

import (
	"context"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// ResourceLocator finds installed resource bundles.
type ResourceLocator interface {
	// Lookup reports the local path of the bundle, or an error when absent.
	Lookup(bundle string) (string, error)
	// Root is the directory bundles are installed under.
	Root() string
}

// ResourceFetcher installs a missing bundle under root.
type ResourceFetcher interface {
	Fetch(ctx context.Context, bundle, root string) error
}

// ResourceProvider hands out loaded linguistic resources, acquiring them on
// first use.
type ResourceProvider interface {
	Ensure(ctx context.Context) (*domain.Resources, error)
}
