package resources

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_text_preprocessing/internal/ports"
)

// DefaultFetchTimeout bounds a single file download when the context has no deadline.
const DefaultFetchTimeout = 30 * time.Second

// maxBundleFileSize guards against a misconfigured mirror serving something huge.
const maxBundleFileSize = 16 * 1024 * 1024

// HTTPFetcher downloads bundle files from a mirror laid out like the data
// directory: <baseURL>/<bundle dir>/<file>.
type HTTPFetcher struct {
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration
	logger  ports.Logger
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the fasthttp client, e.g. to dial an in-memory listener.
func WithHTTPClient(c *fasthttp.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithFetchTimeout sets the per-file timeout.
func WithFetchTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// NewHTTPFetcher creates a fetcher for the given mirror.
func NewHTTPFetcher(baseURL string, logger ports.Logger, opts ...HTTPFetcherOption) (*HTTPFetcher, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("resource base URL is required")
	}
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultFetchTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &fasthttp.Client{
			Name:                "go_text_preprocessing",
			MaxResponseBodySize: maxBundleFileSize,
			ReadTimeout:         f.timeout,
			WriteTimeout:        f.timeout,
		}
	}
	return f, nil
}

// Fetch downloads every file of the named bundle under root.
func (f *HTTPFetcher) Fetch(ctx context.Context, name, root string) error {
	b, err := LookupBundle(name)
	if err != nil {
		return err
	}

	for _, rel := range b.FilePaths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		url := f.baseURL + "/" + rel
		start := time.Now()
		body, err := f.get(ctx, url)
		if err != nil {
			f.logger.Error("Resource download failed", "bundle", name, "url", url, "error", err)
			return err
		}
		if err := writeFileAtomic(filepath.Join(root, filepath.FromSlash(rel)), body); err != nil {
			return fmt.Errorf("install %s: %w", rel, err)
		}
		f.logger.Debug("Resource file downloaded",
			"bundle", name,
			"url", url,
			"bytes", len(body),
			"duration", time.Since(start),
		)
	}
	return nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(f.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, status)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
