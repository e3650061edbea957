package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
)

const maxAttempts = 4

// baseBackoff is a var so tests can shrink it.
var baseBackoff = 2 * time.Second

// withRetry runs fn, retrying rate-limited attempts with exponential backoff.
// Auth and other errors fail immediately.
func withRetry(ctx context.Context, fn func() error) error {
	delay := baseBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var rle *domain.RateLimitError
		if !errors.As(err, &rle) || attempt == maxAttempts {
			return err
		}

		wait := delay
		if rle.RetryAfter > wait {
			wait = rle.RetryAfter
		}
		slog.Warn("rate limited, backing off", "wait", wait, "attempt", attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}
