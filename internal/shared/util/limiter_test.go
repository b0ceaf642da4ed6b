package util

import (
	"context"
	"testing"
	"time"
)

func TestPerMinuteLimiter_Disabled(t *testing.T) {
	l := NewPerMinuteLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("expected unlimited limiter to allow event %d", i)
		}
	}
}

func TestPerMinuteLimiter_BurstOfOne(t *testing.T) {
	l := NewPerMinuteLimiter(6)
	if !l.Allow() {
		t.Fatal("expected first event to be allowed")
	}
	if l.Allow() {
		t.Fatal("expected second immediate event to be rejected")
	}
}

func TestLimiter_AcquireWaitsAndReports(t *testing.T) {
	l := NewPerMinuteLimiter(6000) // one token every 10ms
	waits := 0
	if err := l.Acquire(context.Background(), func() { waits++ }); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if waits != 0 {
		t.Fatalf("expected no wait for the first token, got %d", waits)
	}

	start := time.Now()
	if err := l.Acquire(context.Background(), func() { waits++ }); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if waits != 1 {
		t.Fatalf("expected one throttled acquire, got %d", waits)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Acquire returned too early")
	}
}

func TestLimiter_AcquireCancelled(t *testing.T) {
	l := NewPerMinuteLimiter(1)
	l.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx, nil); err == nil {
		t.Fatal("expected cancelled acquire to fail")
	}
}
