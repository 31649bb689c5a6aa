package main

import (
	"encoding/json"
	"io"
	"net"
	"testing"

	"github.com/baditaflorin/l"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/baditaflorin/go_text_preprocessing/internal/resources"
	"github.com/baditaflorin/go_text_preprocessing/pkg/preprocess"
)

func startServer(t *testing.T) *fasthttp.Client {
	t.Helper()

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{Output: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	m := resources.NewManager(resources.NewStore(t.TempDir()), resources.NewEmbeddedFetcher())
	pp, err := preprocess.New(preprocess.WithQuietLogger(), preprocess.WithResourceManager(m), preprocess.WithWorkers(2))
	require.NoError(t, err)

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: newServer(pp, logger).requestHandler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	return &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
}

func do(t *testing.T, c *fasthttp.Client, method, path, body string) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://textprep" + path)
	req.Header.SetMethod(method)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	require.NoError(t, c.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestHealth(t *testing.T) {
	c := startServer(t)
	status, body := do(t, c, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestNormalizeEndpoint(t *testing.T) {
	c := startServer(t)

	status, body := do(t, c, fasthttp.MethodPost, "/normalize",
		`{"texts":["Hello,,,   world!!", null, "Кошки любят молоко"]}`)
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, []string{"hello world", "", "кошка любить молоко"}, resp.Results)
	assert.Equal(t, 3, resp.Count)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	c := startServer(t)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{name: "non string entry", method: fasthttp.MethodPost, body: `{"texts":["ok", 5]}`, status: fasthttp.StatusBadRequest},
		{name: "missing texts", method: fasthttp.MethodPost, body: `{}`, status: fasthttp.StatusBadRequest},
		{name: "malformed json", method: fasthttp.MethodPost, body: `{"texts":`, status: fasthttp.StatusBadRequest},
		{name: "wrong method", method: fasthttp.MethodGet, body: "", status: fasthttp.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := do(t, c, tc.method, "/normalize", tc.body)
			assert.Equal(t, tc.status, status)
		})
	}

	_, body := do(t, c, fasthttp.MethodPost, "/normalize", `{"texts":["ok", 5]}`)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.NotNil(t, errResp.Index)
	assert.Equal(t, 1, *errResp.Index)
}

func TestFrequenciesEndpoint(t *testing.T) {
	c := startServer(t)

	status, body := do(t, c, fasthttp.MethodPost, "/frequencies",
		`{"texts":["Кошки любят молоко", "кошка и молоко", "кошка"],"top":2}`)
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	var resp FrequencyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, []preprocess.Entry{{Token: "кошка", Count: 3}, {Token: "молоко", Count: 2}}, resp.Tokens)
}

func TestFrequenciesTopBounds(t *testing.T) {
	c := startServer(t)
	texts := `"texts":["Кошки любят молоко", "кошка и молоко", "кошка"]`

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "omitted uses default", body: "{" + texts + "}", want: 3},
		{name: "zero returns none", body: "{" + texts + `,"top":0}`, want: 0},
		{name: "negative returns all", body: "{" + texts + `,"top":-1}`, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, c, fasthttp.MethodPost, "/frequencies", tc.body)
			require.Equal(t, fasthttp.StatusOK, status, string(body))

			var resp FrequencyResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Len(t, resp.Tokens, tc.want)
		})
	}
}

func TestUnknownPath(t *testing.T) {
	c := startServer(t)
	status, _ := do(t, c, fasthttp.MethodGet, "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, status)
}
