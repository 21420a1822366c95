package workbook

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RetryOpener wraps an Opener with a bounded retry loop and fixed backoff.
// Workbook hosts drop connections under load; everything else in the
// engine stays retry-free.
type RetryOpener struct {
	inner   Opener
	retries int
	backoff time.Duration
	logger  zerolog.Logger
}

// NewRetryOpener wraps an opener. A non-positive retries count means a
// single attempt with no retry.
func NewRetryOpener(inner Opener, retries int, backoff time.Duration, logger zerolog.Logger) *RetryOpener {
	if retries < 0 {
		retries = 0
	}
	return &RetryOpener{
		inner:   inner,
		retries: retries,
		backoff: backoff,
		logger:  logger.With().Str("component", "workbook").Logger(),
	}
}

// Open tries the inner opener up to retries+1 times, sleeping the fixed
// backoff between attempts. Context cancellation stops the loop.
func (r *RetryOpener) Open(ctx context.Context, path string) (Workbook, error) {
	var lastErr error

	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			r.logger.Warn().
				Err(lastErr).
				Str("path", path).
				Int("attempt", attempt).
				Msg("Retrying workbook open")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("workbook open cancelled: %w", ctx.Err())
			case <-time.After(r.backoff):
			}
		}

		wb, err := r.inner.Open(ctx, path)
		if err == nil {
			return wb, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to open workbook after %d attempts: %w", r.retries+1, lastErr)
}
