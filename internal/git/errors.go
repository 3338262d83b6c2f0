package git

import (
	"fmt"
	"strings"
)

// Typed sync errors let callers classify failures without parsing message
// text. Unwrap exposes the underlying go-git error.

type AuthError struct {
	Op, URL string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth error for %s: %v", e.Op, e.URL, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Op, URL string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found %s: %v", e.Op, e.URL, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

type UnsupportedProtocolError struct {
	Op, URL string
	Err     error
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("%s unsupported protocol %s: %v", e.Op, e.URL, e.Err)
}
func (e *UnsupportedProtocolError) Unwrap() error { return e.Err }

type RateLimitError struct {
	Op, URL string
	Err     error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited by %s: %v", e.Op, e.URL, e.Err)
}
func (e *RateLimitError) Unwrap() error { return e.Err }

type NetworkTimeoutError struct {
	Op, URL string
	Err     error
}

func (e *NetworkTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out for %s: %v", e.Op, e.URL, e.Err)
}
func (e *NetworkTimeoutError) Unwrap() error { return e.Err }

// classifyError wraps a go-git failure into a typed variant when the message
// identifies one. Unmatched errors keep their original text under an op/url
// prefix.
func classifyError(op, url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") ||
		strings.Contains(l, "not authorized") || strings.Contains(l, "invalid username or password"):
		return &AuthError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		return &UnsupportedProtocolError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "rate limit") || strings.Contains(l, "too many requests"):
		return &RateLimitError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		return &NetworkTimeoutError{Op: op, URL: url, Err: err}
	default:
		return fmt.Errorf("%s %s: %w", op, url, err)
	}
}
