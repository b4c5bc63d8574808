package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllow_Burst(t *testing.T) {
	krl := New(1, 2)
	defer krl.Stop()

	if !krl.Allow("voice-a") {
		t.Error("first request should be allowed")
	}
	if !krl.Allow("voice-a") {
		t.Error("second request within burst should be allowed")
	}
	if krl.Allow("voice-a") {
		t.Error("third request should be rate limited")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("voice-a") {
		t.Error("voice-a should be allowed")
	}
	if !krl.Allow("voice-b") {
		t.Error("voice-b has its own bucket and should be allowed")
	}
	if krl.Allow("voice-a") {
		t.Error("voice-a should now be limited")
	}
}

func TestWait_ContextCancel(t *testing.T) {
	krl := New(0.001, 1)
	defer krl.Stop()

	// Drain the single token.
	if !krl.Allow("k") {
		t.Fatal("initial token should be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := krl.Wait(ctx, "k"); err == nil {
		t.Error("expected Wait to fail when context expires before a token is available")
	}
}
