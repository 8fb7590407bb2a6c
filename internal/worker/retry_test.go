package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adurasov/nutricode/internal/model"
)

var errTransient = errors.New("transient")

func newTestPolicy(attempts int) (*RetryPolicy, *[]time.Duration) {
	var delays []time.Duration
	p := NewRetryPolicy(model.RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	})
	p.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return p, &delays
}

func TestRetry_SucceedsEventually(t *testing.T) {
	p, delays := newTestPolicy(3)

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, func(error) bool { return true })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	// Exponential backoff: base, 2*base.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *delays)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay %d = %v, want %v", i, (*delays)[i], d)
		}
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	p, _ := newTestPolicy(3)

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, func(error) bool { return true })

	if !errors.Is(err, errTransient) {
		t.Errorf("expected last error back, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	p, delays := newTestPolicy(5)
	permanent := errors.New("permanent")

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, func(err error) bool { return !errors.Is(err, permanent) })

	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("permanent failure must not retry, got %d calls", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("expected no sleeps, got %v", *delays)
	}
}

func TestRetry_DelayCap(t *testing.T) {
	p := NewRetryPolicy(model.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   2 * time.Second,
		MaxDelay:    5 * time.Second,
	})

	if d := p.delay(1); d != 2*time.Second {
		t.Errorf("delay(1) = %v, want 2s", d)
	}
	if d := p.delay(2); d != 4*time.Second {
		t.Errorf("delay(2) = %v, want 4s", d)
	}
	if d := p.delay(3); d != 5*time.Second {
		t.Errorf("delay(3) = %v, want cap 5s", d)
	}
}

func TestRetry_JitterBounds(t *testing.T) {
	p := NewRetryPolicy(model.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Jitter:      true,
	})

	for i := 0; i < 50; i++ {
		d := p.delay(1)
		if d < time.Second || d > time.Second+time.Second/4 {
			t.Fatalf("jittered delay %v outside [1s, 1.25s]", d)
		}
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	p := NewRetryPolicy(model.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return errTransient
	}, func(error) bool { return true })

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before the first sleep, got %d", calls)
	}
}
