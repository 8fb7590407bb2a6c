package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("openai") {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("expected 3 allowed within burst, got %d", allowed)
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("openai") {
		t.Error("first openai request must pass")
	}
	if l.Allow("openai") {
		t.Error("second openai request must be throttled")
	}
	if !l.Allow("other") {
		t.Error("a different provider has its own budget")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetProviderRate("fast", 1000, 10)

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("fast") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("expected 10 allowed on custom burst, got %d", allowed)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("slow") // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "slow"); err == nil {
		t.Error("expected context error while throttled")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	if l.defaultBurst != 5 {
		t.Errorf("expected default burst 5, got %d", l.defaultBurst)
	}
}
