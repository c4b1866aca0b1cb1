package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/mediamirror/internal/config"
	"git.home.luguber.info/inful/mediamirror/internal/retry"
)

// maxRedirects caps redirect chains so a misbehaving origin cannot loop forever.
const maxRedirects = 5

// statusError marks terminal HTTP failures (non-2xx final responses).
// These are never retried; only network-level errors are transient.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.code, e.url)
}

// Fetcher downloads single remote resources to local files.
//
// Every download observes one timeout budget covering the whole redirect
// chain. The body is streamed to a temp file in the destination directory and
// renamed into place only on success, so a failed or aborted transfer never
// leaves a partial file at the destination.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	agent   string
	policy  retry.Policy
}

// NewFetcher builds a Fetcher from fetch configuration.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		},
		timeout: cfg.Timeout,
		agent:   cfg.UserAgent,
		policy:  retry.NewPolicy(retry.BackoffLinear, time.Second, cfg.Timeout, cfg.Retries),
	}
}

// Fetch downloads rawURL to dest. Network-level errors are retried per the
// configured policy, each attempt with a fresh timeout budget; HTTP error
// statuses and context cancellation are terminal.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = f.fetchOnce(ctx, rawURL, dest)
		if lastErr == nil {
			return nil
		}
		var se *statusError
		if errors.As(lastErr, &se) || ctx.Err() != nil || attempt >= f.policy.MaxRetries {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.policy.Delay(attempt + 1)):
		}
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.agent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, url: rawURL}
	}

	return writeAtomically(dest, resp.Body)
}

// writeAtomically streams r to a temp file next to dest and renames it into
// place, removing the temp file on any failure.
func writeAtomically(dest string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".mediamirror-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("stream body: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
