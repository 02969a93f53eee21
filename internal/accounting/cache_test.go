package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/qayd-erp/qayd/testing"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheVersionInitialises(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if ver != 1 {
		t.Fatalf("fresh version = %d, want 1", ver)
	}
	ver, err = cache.Version(ctx)
	if err != nil || ver != 1 {
		t.Fatalf("second read = %d (%v), want 1", ver, err)
	}
}

func TestCacheBumpRotatesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "ledger", "tb")
	if err != nil {
		t.Fatalf("build key: %v", err)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("bump: %v", err)
	}
	after, err := cache.BuildKey(ctx, "ledger", "tb")
	if err != nil {
		t.Fatalf("build key after bump: %v", err)
	}
	if before == after {
		t.Fatalf("key %q did not rotate", before)
	}
}

func TestCacheFetchJSONLoadsOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	type report struct {
		Total string `json:"total"`
	}
	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return report{Total: "45000"}, nil
	}

	key, err := cache.BuildKey(ctx, "ledger", "tb")
	if err != nil {
		t.Fatalf("build key: %v", err)
	}
	var first, second report
	if err := cache.FetchJSON(ctx, key, &first, loader); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if err := cache.FetchJSON(ctx, key, &second, loader); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if loads != 1 {
		t.Fatalf("loader ran %d times, want 1", loads)
	}
	if first.Total != "45000" || second.Total != "45000" {
		t.Fatalf("payloads = %+v / %+v", first, second)
	}
}

func TestCacheNilClientDegradesToDirectBuilds(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return map[string]string{"ok": "yes"}, nil
	}
	var out map[string]string
	for i := 0; i < 3; i++ {
		if err := cache.FetchJSON(ctx, "ledger:tb:1", &out, loader); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if loads != 3 {
		t.Fatalf("loader ran %d times, want one per call", loads)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("nil bump: %v", err)
	}
}

func TestListenForInvalidationSyncsVersion(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := cache.Version(ctx); err != nil {
		t.Fatalf("seed version: %v", err)
	}
	if err := cache.ListenForInvalidation(ctx, ""); err != nil {
		t.Fatalf("listen: %v", err)
	}

	// Another instance bumps and publishes; this one must follow.
	publisher := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = publisher.Close() }()
	if err := publisher.Publish(ctx, "ledger.bump", "7").Err(); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if v, err := mr.Get("ledger:version"); err == nil && v == "7" {
			return
		}
		if time.Now().After(deadline) {
			v, _ := mr.Get("ledger:version")
			t.Fatalf("version did not sync, still %q", v)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
