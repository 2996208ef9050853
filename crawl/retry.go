package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitescrape"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays attempts a fetch once plus one retry per delay.
// Permanent failures (EINVALID, ENOTFOUND) are returned without retrying.
// With no delays the fetch is attempted exactly once.
// The logger function, if provided, is called for each retry attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || isPermanent(err) {
			break
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		if err := sleep(ctx, delays[attempt]); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

// isPermanent reports whether retrying the fetch cannot succeed.
func isPermanent(err error) bool {
	switch sitescrape.ErrorCode(err) {
	case sitescrape.EINVALID, sitescrape.ENOTFOUND:
		return true
	}
	return false
}

// sleep pauses for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
