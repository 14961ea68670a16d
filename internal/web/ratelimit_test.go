package web

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Error("third request in window should be limited")
	}
	if !rl.allow("b") {
		t.Error("other IPs have their own budget")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.allow("a") {
		t.Error("budget should reset after the window")
	}
}

func TestRateLimiter_ZeroRateDisables(t *testing.T) {
	rl := newRateLimiter(0, time.Minute)
	defer rl.Stop()

	for range 5 {
		if !rl.allow("a") {
			t.Fatal("zero rate should not limit")
		}
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.allow("stale")

	now = now.Add(3 * time.Minute)
	rl.allow("fresh")
	rl.sweep()

	if _, ok := rl.visitors["stale"]; ok {
		t.Error("stale visitor should be swept")
	}
	if _, ok := rl.visitors["fresh"]; !ok {
		t.Error("fresh visitor should remain")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}
