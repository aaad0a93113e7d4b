package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("want ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("want ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheTypedRoundtrip(t *testing.T) {
	type payload struct {
		Ticker string  `json:"ticker"`
		Score  float64 `json:"score"`
	}
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "sig", payload{Ticker: "ABC", Score: 72.5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got payload
	if err := mc.Get(ctx, "sig", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Ticker != "ABC" || got.Score != 72.5 {
		t.Fatalf("roundtrip got %+v", got)
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", 1, time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", 2, time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", 3, time.Minute)

	var got interface{}
	if err := mc.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("oldest entry must be evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &got); err != nil {
		t.Fatalf("newest entry must survive: %v", err)
	}
}
