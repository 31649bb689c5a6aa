package resources

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kljensen/snowball/english"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/baditaflorin/go_text_preprocessing/internal/adapters/logger"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// countingFetcher wraps a fetcher, counts calls per bundle and can be told to
// fail a number of times first.
type countingFetcher struct {
	next     EmbeddedFetcher
	failures atomic.Int64
	mu       sync.Mutex
	calls    map[string]int
}

func newCountingFetcher(failures int64) *countingFetcher {
	f := &countingFetcher{calls: make(map[string]int)}
	f.failures.Store(failures)
	return f
}

func (f *countingFetcher) Fetch(ctx context.Context, name, root string) error {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
	if f.failures.Add(-1) >= 0 {
		return errors.New("network unreachable")
	}
	return f.next.Fetch(ctx, name, root)
}

func (f *countingFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func installAll(t *testing.T, root string) {
	t.Helper()
	for _, name := range RequiredBundles() {
		require.NoError(t, NewEmbeddedFetcher().Fetch(context.Background(), name, root))
	}
}

func TestStoreLookup(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	_, err := store.Lookup(StopwordsBundle)
	require.Error(t, err)

	require.NoError(t, NewEmbeddedFetcher().Fetch(context.Background(), StopwordsBundle, root))

	dir, err := store.Lookup(StopwordsBundle)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dir, "stopwords"))

	_, err = store.Lookup("wordnet")
	assert.Error(t, err)
}

func TestManagerSkipsFetchWhenPresent(t *testing.T) {
	root := t.TempDir()
	installAll(t, root)

	fetcher := newCountingFetcher(0)
	m := NewManager(NewStore(root), fetcher)

	res, err := m.Ensure(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Stopwords.Contains("и"))
	assert.True(t, res.Stopwords.Contains("The"))
	assert.Equal(t, 0, fetcher.total())
	assert.Equal(t, int64(len(RequiredBundles())), m.Stats().Lookups)

	_, err = m.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(RequiredBundles())), m.Stats().Lookups, "cached resources must not be looked up again")
}

func TestManagerFetchesAbsentBundlesOnce(t *testing.T) {
	fetcher := newCountingFetcher(0)
	m := NewManager(NewStore(t.TempDir()), fetcher, WithManagerLogger(logger.NewNopLogger()))

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, name := range RequiredBundles() {
		assert.Equal(t, 1, fetcher.calls[name], "bundle %s", name)
	}
	assert.Equal(t, int64(1), m.Stats().Loads)
	assert.NotNil(t, m.Loaded())
}

func TestManagerSurfacesFetchFailureAndRetries(t *testing.T) {
	fetcher := newCountingFetcher(1)
	m := NewManager(NewStore(t.TempDir()), fetcher)

	_, err := m.Ensure(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResourceUnavailable))
	assert.Nil(t, m.Loaded())

	res, err := m.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 330, res.Stopwords.Len())
}

func TestManagerWithoutFetcher(t *testing.T) {
	m := NewManager(NewStore(t.TempDir()), nil)

	_, err := m.Ensure(context.Background())
	assert.True(t, errors.Is(err, domain.ErrResourceUnavailable))
	assert.Equal(t, int64(0), m.Stats().Fetches)
}

func TestLoadedTokenizerTables(t *testing.T) {
	root := t.TempDir()
	installAll(t, root)

	res, err := NewManager(NewStore(root), nil).Ensure(context.Background())
	require.NoError(t, err)

	tok := res.Tokenizer
	assert.Equal(t, DefaultLanguage, tok.Language)
	assert.Contains(t, tok.Abbreviations, "т.е")
	assert.Contains(t, tok.SentenceEnders, '.')
	assert.Contains(t, tok.SentenceEnders, '…')
	assert.Contains(t, tok.Closers, '»')
	assert.Contains(t, tok.Splitters, ',')
}

func serveBundles(t *testing.T, missing string) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	t.Cleanup(func() { ln.Close() })

	handler := func(ctx *fasthttp.RequestCtx) {
		p := strings.TrimPrefix(string(ctx.Path()), "/mirror/")
		if missing != "" && strings.HasPrefix(p, missing) {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		data, err := bundled.ReadFile("data/" + p)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetBody(data)
	}
	go fasthttp.Serve(ln, handler) //nolint:errcheck

	return &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}
}

func TestHTTPFetcherInstallsBundle(t *testing.T) {
	root := t.TempDir()
	client := serveBundles(t, "")

	f, err := NewHTTPFetcher("http://mirror.local/mirror/", logger.NewNopLogger(), WithHTTPClient(client))
	require.NoError(t, err)

	m := NewManager(NewStore(root), f)
	res, err := m.Ensure(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Stopwords.Contains("между"))
	assert.Equal(t, int64(3), m.Stats().Fetches)
}

func TestHTTPFetcherReportsMissingFile(t *testing.T) {
	client := serveBundles(t, "corpora/")

	f, err := NewHTTPFetcher("http://mirror.local/mirror", logger.NewNopLogger(), WithHTTPClient(client))
	require.NoError(t, err)

	_, err = NewManager(NewStore(t.TempDir()), f).Ensure(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResourceUnavailable))
	assert.Contains(t, err.Error(), "404")
}

func TestNewHTTPFetcherRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPFetcher("  ", logger.NewNopLogger())
	assert.Error(t, err)
}

func TestLoadedStopwords(t *testing.T) {
	m := NewManager(NewStore(t.TempDir()), NewEmbeddedFetcher())
	res, err := m.Ensure(context.Background())
	require.NoError(t, err)

	sw := res.Stopwords
	for _, w := range []string{"и", "в", "не", "что", "НА", "the", "And", "of"} {
		assert.True(t, sw.Contains(w), w)
	}
	for _, w := range []string{"кошка", "молоко", "cats", ""} {
		assert.False(t, sw.Contains(w), w)
	}

	// The NLTK English list is derived from the Snowball one; the common core
	// must agree.
	for _, w := range []string{"i", "me", "you", "he", "she", "it", "they", "is", "are", "was", "be", "have", "do", "the", "and", "but", "if", "or", "of", "at", "by", "for", "with"} {
		assert.True(t, english.IsStopWord(w), w)
		assert.True(t, sw.Contains(w), w)
	}
}
