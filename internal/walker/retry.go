package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"drive-inventory/pkg/models"
)

// RetryPolicy bounds the exponential backoff applied to transient listing
// failures. Only errors wrapping models.ErrTransient are retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// delay returns the wait before the given retry (1 = first retry).
func (p RetryPolicy) delay(retry int) time.Duration {
	d := p.BaseDelay * time.Duration(1<<uint(min(retry-1, 30)))
	if d <= 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		d = p.MaxDelay
	}

	return d
}

// Do runs fn until it succeeds, fails with a non-transient error, or the
// attempt budget is spent.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	attempts := max(p.MaxAttempts, 1)

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.delay(attempt)
			logger.Info("Retrying Drive call", "op", op, "delay", delay, "attempt", attempt+1, "max_attempts", attempts)

			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		if !errors.Is(err, models.ErrTransient) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("max attempts (%d) exceeded, last error: %w", attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
