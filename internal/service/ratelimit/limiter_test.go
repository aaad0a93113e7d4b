package ratelimit

import "testing"

func TestAllowWithinCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		if !l.Allow("k", 5, 1) {
			t.Fatalf("request %d within capacity should be allowed", i)
		}
	}
	if l.Allow("k", 5, 1) {
		t.Fatalf("request over capacity should be rejected")
	}
}

func TestAllowIndependentKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1) {
		t.Fatalf("first request for a should pass")
	}
	if l.Allow("a", 1, 1) {
		t.Fatalf("second request for a should be throttled")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatalf("b must have its own bucket")
	}
}
