package gateway

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// RetryConfig bounds the retry decorator. Zero values fall back to
// the defaults applied in WithRetry.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryCharger wraps a Charger and retries transient failures with
// capped exponential backoff. Permanent rejections return immediately.
type RetryCharger struct {
	next Charger
	cfg  RetryConfig
	// sleep is swapped in tests to avoid waiting on real backoff
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry decorates the given charger.
func WithRetry(next Charger, cfg RetryConfig) *RetryCharger {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	return &RetryCharger{
		next:  next,
		cfg:   cfg,
		sleep: sleepContext,
	}
}

var _ Charger = (*RetryCharger)(nil)

// Charge runs the wrapped call up to MaxAttempts times. The last
// failure is what the caller sees when retries exhaust.
func (r *RetryCharger) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	var lastErr error

	delay := r.cfg.BaseDelay
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		resp, err := r.next.Charge(ctx, req)
		if err == nil {
			return resp, nil
		}

		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == r.cfg.MaxAttempts {
			break
		}

		if err := r.sleep(ctx, delay); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "charge canceled while backing off").
				WithTextCode("GATEWAY_CANCELED")
		}

		delay *= 2
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
	}

	return nil, lastErr
}

// IsRetryable reports whether the failure is worth another attempt.
// Transport errors and gateway unavailability retry, everything else
// is treated as permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	switch richErr.TextCode {
	case "GATEWAY_UNREACHABLE", "GATEWAY_UNAVAILABLE":
		return true
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
