package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"prism/internal/logging"
	"prism/internal/progress"
)

const lockRetryInterval = 250 * time.Millisecond

// Options configures a Fetcher.
type Options struct {
	// CacheDir is where downloaded files and the index live.
	CacheDir string
	// BaseURL, when set, resolves relative resource names.
	BaseURL string
	// UserAgent is sent with every request.
	UserAgent string
	// Timeout bounds a single download attempt. Zero means no limit.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after a failed download.
	MaxRetries int
}

// Fetcher downloads remote resources into the cache directory.
type Fetcher struct {
	opts    Options
	client  *http.Client
	index   *Index
	lock    *flock.Flock
	logger  *slog.Logger
	backend progress.Backend
}

// NewFetcher constructs a fetcher around an open index. A nil logger
// disables logging and a nil backend disables progress reporting.
func NewFetcher(opts Options, index *Index, logger *slog.Logger, backend progress.Backend) (*Fetcher, error) {
	if index == nil {
		return nil, errors.New("fetcher requires an index")
	}
	if strings.TrimSpace(opts.CacheDir) == "" {
		return nil, errors.New("fetcher requires a cache directory")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if backend == nil {
		backend = &progress.NoopBackend{Out: io.Discard}
	}
	return &Fetcher{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		index:   index,
		lock:    flock.New(filepath.Join(opts.CacheDir, "fetch.lock")),
		logger:  logging.NewComponentLogger(logger, "remote"),
		backend: backend,
	}, nil
}

// Fetch returns a local path for the resource, downloading it on a cache
// miss. The returned path points into the cache directory; callers must not
// modify the file.
func (f *Fetcher) Fetch(ctx context.Context, resource string) (string, error) {
	target, err := f.resolveURL(resource)
	if err != nil {
		return "", err
	}

	if hit, err := f.cached(ctx, target); err != nil {
		return "", err
	} else if hit != "" {
		f.logger.Debug("cache hit", logging.String("url", target))
		return hit, nil
	}

	locked, err := f.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return "", fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return "", errors.New("cache lock unavailable")
	}
	defer func() { _ = f.lock.Unlock() }()

	// Another process may have fetched it while we waited on the lock.
	if hit, err := f.cached(ctx, target); err != nil {
		return "", err
	} else if hit != "" {
		return hit, nil
	}

	var lastErr error
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying download",
				logging.String("url", target),
				logging.Int("attempt", attempt+1),
				logging.Error(lastErr))
		}
		local, err := f.download(ctx, target)
		if err == nil {
			return local, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("fetch %s: %w", target, lastErr)
}

// cached returns the local path when the index has a usable entry for url.
// Entries whose file has disappeared are dropped so the fetch can proceed.
func (f *Fetcher) cached(ctx context.Context, url string) (string, error) {
	res, err := f.index.Lookup(ctx, url)
	if errors.Is(err, ErrNotCached) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(res.Path); err != nil {
		f.logger.Warn("cached file missing, refetching",
			logging.String("url", url),
			logging.String("path", res.Path))
		if err := f.index.Remove(ctx, url); err != nil {
			return "", err
		}
		return "", nil
	}
	return res.Path, nil
}

func (f *Fetcher) download(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	name := remoteName(target)
	ind := progress.New(name, f.backend)
	ind.Start("download", "B", float64(resp.ContentLength))

	id := uuid.NewString()
	partPath := filepath.Join(f.opts.CacheDir, id+".part")
	part, err := os.Create(partPath)
	if err != nil {
		ind.Fail("create staging file")
		return "", fmt.Errorf("create staging file: %w", err)
	}

	hasher := sha256.New()
	written, copyErr := io.Copy(io.MultiWriter(part, hasher, progressWriter{ind}), resp.Body)
	closeErr := part.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(partPath)
		err := copyErr
		if err == nil {
			err = closeErr
		}
		ind.Fail(fmt.Sprintf("download %s: %v", name, err))
		return "", fmt.Errorf("download body: %w", err)
	}

	finalPath := filepath.Join(f.opts.CacheDir, id+path.Ext(name))
	if err := os.Rename(partPath, finalPath); err != nil {
		_ = os.Remove(partPath)
		ind.Fail("stage download")
		return "", fmt.Errorf("stage download: %w", err)
	}

	res := &Resource{
		ID:        id,
		URL:       target,
		Path:      finalPath,
		Size:      written,
		SHA256:    hex.EncodeToString(hasher.Sum(nil)),
		FetchedAt: time.Now().UTC(),
	}
	if err := f.index.Record(ctx, res); err != nil {
		_ = os.Remove(finalPath)
		ind.Fail("record download")
		return "", err
	}

	ind.Finish(fmt.Sprintf("fetched %s (%d bytes)", name, written))
	f.logger.Info("downloaded resource",
		logging.String("url", target),
		logging.String("path", finalPath),
		logging.Int64("bytes", written))
	return finalPath, nil
}

// resolveURL turns a resource name into an absolute URL, joining relative
// names onto the configured base URL.
func (f *Fetcher) resolveURL(resource string) (string, error) {
	trimmed := strings.TrimSpace(resource)
	if trimmed == "" {
		return "", errors.New("empty resource name")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse resource %q: %w", trimmed, err)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	if f.opts.BaseURL == "" {
		return "", fmt.Errorf("relative resource %q requires fetch.base_url", trimmed)
	}
	base, err := url.Parse(f.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	return base.ResolveReference(parsed).String(), nil
}

// remoteName extracts a human-friendly name from the URL path.
func remoteName(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return parsed.Host
	}
	return name
}

// progressWriter forwards byte counts to an indicator as data streams through.
type progressWriter struct {
	ind *progress.Indicator
}

func (w progressWriter) Write(p []byte) (int, error) {
	w.ind.IncreaseProgress(float64(len(p)))
	return len(p), nil
}
