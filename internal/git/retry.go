package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/retry"
)

// withRetry runs one sync operation under the configured backoff policy.
// Failures classified as permanent (bad credentials, missing repository,
// unsupported protocol) abort immediately; everything else is assumed
// transient and retried. Without retry configuration the operation runs once.
func (c *Client) withRetry(ctx context.Context, op, name string, fn func() (string, error)) (string, error) {
	if c.retryCfg == nil || c.retryCfg.MaxRetries <= 0 {
		return fn()
	}
	pol := retry.NewPolicy(
		c.retryCfg.RetryBackoff,
		parseDelay(c.retryCfg.RetryInitialDelay, 500*time.Millisecond),
		parseDelay(c.retryCfg.RetryMaxDelay, 10*time.Second),
		c.retryCfg.MaxRetries,
	)

	// Rate-limit responses get a stretched delay; plain timeouts keep the
	// base backoff.
	const rateLimitMultiplier = 3.0

	var lastErr error
	for attempt := 0; attempt <= pol.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying git operation",
				slog.String("operation", op),
				logfields.Source(name),
				slog.Int("attempt", attempt))
		}
		path, err := fn()
		if err == nil {
			return path, nil
		}
		lastErr = err
		if isPermanent(err) {
			return "", err
		}
		if attempt == pol.MaxRetries {
			break
		}
		delay := pol.Delay(attempt + 1)
		if errors.As(err, new(*RateLimitError)) {
			delay = time.Duration(float64(delay) * rateLimitMultiplier)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("git %s failed after retries: %w", op, lastErr)
}

// isPermanent reports whether retrying the failure cannot help.
func isPermanent(err error) bool {
	switch {
	case errors.As(err, new(*AuthError)),
		errors.As(err, new(*NotFoundError)),
		errors.As(err, new(*UnsupportedProtocolError)):
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return !nerr.Timeout()
	}
	return false
}

func parseDelay(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
