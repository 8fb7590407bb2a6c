package worker

import (
	"context"
	"math/rand"
	"time"

	"github.com/adurasov/nutricode/internal/model"
)

// RetryPolicy retries an operation with exponential backoff. Whether a
// failure is worth retrying is the caller's decision via shouldRetry; the
// policy only owns attempt counting and delay growth.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a policy from configuration.
func NewRetryPolicy(cfg model.RetryConfig) *RetryPolicy {
	p := &RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Jitter:      cfg.Jitter,
		sleep:       sleepCtx,
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. It stops
// early when fn succeeds, shouldRetry rejects the error, or the context
// ends. The last error is returned.
func (p *RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error, shouldRetry func(error) bool) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.delay(attempt)); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// delay computes the backoff before the given attempt (1-based): base,
// 2*base, 4*base, capped at MaxDelay.
func (p *RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter {
		// Up to 25% extra, so synchronized workers fan out.
		d += time.Duration(rand.Int63n(int64(d)/4 + 1))
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
