package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestFetcher(t *testing.T, opts Options) *Fetcher {
	t.Helper()
	if opts.CacheDir == "" {
		opts.CacheDir = t.TempDir()
	}
	ix, err := OpenIndex(opts.CacheDir)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })

	f, err := NewFetcher(opts, ix, nil, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return f
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	payload := []byte("not really a png")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != "prism/test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Options{UserAgent: "prism/test"})
	ctx := context.Background()

	local, err := f.Fetch(ctx, srv.URL+"/images/cat.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("cached content = %q", data)
	}
	if !strings.HasSuffix(local, ".png") {
		t.Errorf("cached file lost extension: %s", local)
	}

	// Index entry carries size and checksum.
	res, err := f.index.Lookup(ctx, srv.URL+"/images/cat.png")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", res.Size, len(payload))
	}
	sum := sha256.Sum256(payload)
	if res.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("SHA256 = %s", res.SHA256)
	}

	// Second fetch is served from cache without touching the server.
	again, err := f.Fetch(ctx, srv.URL+"/images/cat.png")
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if again != local {
		t.Errorf("cache hit returned %s, want %s", again, local)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestFetchRefetchesWhenCachedFileMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, Options{})
	ctx := context.Background()

	local, err := f.Fetch(ctx, srv.URL+"/a.bin")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(local); err != nil {
		t.Fatal(err)
	}

	refetched, err := f.Fetch(ctx, srv.URL+"/a.bin")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if _, err := os.Stat(refetched); err != nil {
		t.Errorf("refetched file missing: %v", err)
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, Options{MaxRetries: 1})
	if _, err := f.Fetch(context.Background(), srv.URL+"/x"); err != nil {
		t.Fatalf("Fetch with retry: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Options{MaxRetries: 1})
	_, err := f.Fetch(context.Background(), srv.URL+"/gone")
	if err == nil {
		t.Fatal("Fetch succeeded against failing server")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error does not surface status: %v", err)
	}
}

func TestFetchResolvesRelativeAgainstBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/dog.gif" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("gif"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, Options{BaseURL: srv.URL + "/images/"})
	if _, err := f.Fetch(context.Background(), "dog.gif"); err != nil {
		t.Fatalf("relative fetch: %v", err)
	}

	// Without a base URL, relative names are rejected.
	bare := newTestFetcher(t, Options{})
	if _, err := bare.Fetch(context.Background(), "dog.gif"); err == nil {
		t.Error("relative fetch without base URL accepted")
	}
}

func TestFetchRejectsEmptyResource(t *testing.T) {
	f := newTestFetcher(t, Options{})
	if _, err := f.Fetch(context.Background(), "  "); err == nil {
		t.Error("empty resource accepted")
	}
}

func TestRemoteName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/images/cat.png", "cat.png"},
		{"https://example.com/", "example.com"},
		{"https://example.com", "example.com"},
	}
	for _, tc := range cases {
		if got := remoteName(tc.url); got != tc.want {
			t.Errorf("remoteName(%s) = %s, want %s", tc.url, got, tc.want)
		}
	}
}
