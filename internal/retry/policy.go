// Package retry provides the backoff policy applied to transient failures
// while syncing remote sources.
package retry

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/exdoc/internal/config"
)

// Policy describes how often and how fast an operation is retried.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // retry attempts after the first failure
}

// DefaultPolicy returns the policy used when the configuration carries no
// retry tuning: linear backoff, 1s initial delay, 30s cap, 2 retries.
func DefaultPolicy() Policy {
	return Policy{
		Mode:       config.RetryBackoffLinear,
		Initial:    time.Second,
		Max:        30 * time.Second,
		MaxRetries: 2,
	}
}

// NewPolicy builds a policy from raw configuration values. Zero or invalid
// values fall back to the defaults; an initial delay above the cap is
// clamped to it.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	if normalized := config.NormalizeRetryBackoff(string(mode)); normalized != "" {
		p.Mode = normalized
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the pause before the given retry (1-based: the first retry
// is 1). Growth is capped at Max.
func (p Policy) Delay(retry int) time.Duration {
	if retry <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		d := p.Initial * (1 << (retry - 1))
		if d > p.Max {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retry) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate reports a policy whose values cannot be applied.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial delay must be positive")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max delay must be positive")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}
