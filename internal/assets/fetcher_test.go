package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mediamirror/internal/config"
)

func newTestFetcher(timeout time.Duration, retries int) *Fetcher {
	return NewFetcher(config.FetchConfig{
		Timeout:     timeout,
		Concurrency: 1,
		Retries:     retries,
		UserAgent:   "mediamirror-test",
	})
}

func TestFetchSuccess(t *testing.T) {
	body := []byte("png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mediamirror-test", r.Header.Get("User-Agent"))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.png")
	err := newTestFetcher(5*time.Second, 0).Fetch(context.Background(), srv.URL+"/a.png", dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchNotFoundLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.png")
	err := newTestFetcher(5*time.Second, 2).Fetch(context.Background(), srv.URL+"/a.png", dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	assertNoTempFiles(t, dir)
}

func TestFetchStatusErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.png")
	err := newTestFetcher(5*time.Second, 3).Fetch(context.Background(), srv.URL+"/a.png", dest)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchFollowsRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("redirected-content"))
	}))
	defer final.Close()
	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/real.png", http.StatusMovedPermanently)
	}))
	defer redirecting.Close()

	dest := filepath.Join(t.TempDir(), "out.png")
	err := newTestFetcher(5*time.Second, 0).Fetch(context.Background(), redirecting.URL+"/a.png", dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("redirected-content"), got)
}

func TestFetchRedirectLoopCapped(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.png")
	err := newTestFetcher(5*time.Second, 0).Fetch(context.Background(), srv.URL+"/loop.png", dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	assertNoTempFiles(t, dir)
}

func TestFetchTimeoutLeavesNoPartialFile(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			_, _ = w.Write([]byte("partial"))
			f.Flush()
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.png")
	err := newTestFetcher(200*time.Millisecond, 0).Fetch(context.Background(), srv.URL+"/slow.png", dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no partial file may remain at the destination")
	assertNoTempFiles(t, dir)
}

func TestFetchContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "out.png")
	err := newTestFetcher(5*time.Second, 3).Fetch(ctx, srv.URL+"/a.png", dest)
	require.Error(t, err)
}

func TestFetchRetriesNetworkError(t *testing.T) {
	// A server that is immediately closed yields connection-refused errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	dest := filepath.Join(t.TempDir(), "out.png")
	f := NewFetcher(config.FetchConfig{Timeout: time.Second, Retries: 1, UserAgent: "t"})
	start := time.Now()
	err := f.Fetch(context.Background(), url+"/a.png", dest)
	require.Error(t, err)
	// One retry with ~1s linear backoff must have been attempted.
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".mediamirror-", "temp file left behind")
	}
}
