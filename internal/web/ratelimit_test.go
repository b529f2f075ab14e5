package web

import (
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.Close()

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := range 3 {
		if !rl.allow("192.0.2.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if rl.allow("192.0.2.1") {
		t.Fatal("request over burst allowed")
	}
	if !rl.allow("192.0.2.2") {
		t.Fatal("second client shares the first client's bucket")
	}

	// One token is earned every 20s.
	clock = clock.Add(21 * time.Second)
	if !rl.allow("192.0.2.1") {
		t.Fatal("refilled token denied")
	}
	if rl.allow("192.0.2.1") {
		t.Fatal("only one token should have refilled")
	}

	if got := rl.retryAfter(); got != "20" {
		t.Errorf("retryAfter() = %q, want 20", got)
	}
}
