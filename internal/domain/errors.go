package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingCredentials means every credential source was exhausted.
	ErrMissingCredentials = errors.New("reddit credentials not found in environment, credentials file, or prompt")

	// ErrAuth means the API rejected the supplied credentials. Not retryable.
	ErrAuth = errors.New("reddit rejected credentials")

	// ErrSerialization marks an export encoding failure.
	ErrSerialization = errors.New("serialization failed")
)

// RateLimitError is returned when the API rejects a request for exceeding its
// rate limit. Retryable with backoff.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
