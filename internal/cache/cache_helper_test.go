package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *CacheManager) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, NewCacheManager(client)
}

type payload struct {
	Value int `json:"value"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	_, manager := newTestCache(t)
	ctx := context.Background()

	if err := manager.Stats.Set(ctx, "subject:s1:class_stats", payload{Value: 85}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := manager.Stats.Get(ctx, "subject:s1:class_stats", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Value != 85 {
		t.Errorf("Expected 85, got %d", got.Value)
	}

	t.Run("MissReportsNotFound", func(t *testing.T) {
		var dest payload
		if err := manager.Stats.Get(ctx, "missing", &dest); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Expected ErrCacheNotFound, got %v", err)
		}
	})

	t.Run("PrefixesIsolateHelpers", func(t *testing.T) {
		var dest payload
		if err := manager.Fast.Get(ctx, "subject:s1:class_stats", &dest); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Stats keys must not be visible through the fast helper, got %v", err)
		}
	})
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	_, manager := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return payload{Value: 42}, nil
	}

	var first payload
	if err := manager.Stats.CacheOrExecute(ctx, "subject:s1:class_stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if first.Value != 42 || calls != 1 {
		t.Fatalf("Expected one fetch returning 42, got %d calls, value %d", calls, first.Value)
	}

	// Second call is served from cache.
	var second payload
	if err := manager.Stats.CacheOrExecute(ctx, "subject:s1:class_stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if second.Value != 42 {
		t.Errorf("Expected cached 42, got %d", second.Value)
	}
	if calls != 1 {
		t.Errorf("Expected fetch to run once, ran %d times", calls)
	}
}

func TestCacheHelper_NilClientDegrades(t *testing.T) {
	manager := NewCacheManager(nil)
	ctx := context.Background()

	calls := 0
	var dest payload
	fetch := func() (interface{}, error) {
		calls++
		return payload{Value: 7}, nil
	}

	// Without Redis every call executes the fetch.
	for i := 0; i < 2; i++ {
		if err := manager.Stats.CacheOrExecute(ctx, "key", &dest, time.Minute, fetch); err != nil {
			t.Fatalf("CacheOrExecute failed: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("Expected 2 fetches without cache, got %d", calls)
	}
	if dest.Value != 7 {
		t.Errorf("Expected 7, got %d", dest.Value)
	}

	if err := manager.Stats.Set(ctx, "key", payload{}, time.Minute); err != nil {
		t.Errorf("Set must be a no-op without a client, got %v", err)
	}
	if err := manager.Stats.Get(ctx, "key", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
	if err := manager.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable from health check, got %v", err)
	}
}

func TestCacheManager_InvalidateSubjectStats(t *testing.T) {
	_, manager := newTestCache(t)
	ctx := context.Background()

	keys := []string{
		"subject:s1:class_stats",
		"subject:s1:distribution",
		"at_risk:s1",
		"subject:s2:class_stats",
	}
	for _, key := range keys {
		if err := manager.Stats.Set(ctx, key, payload{Value: 1}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	manager.InvalidateSubjectStats(ctx, "s1")

	var dest payload
	for _, key := range []string{"subject:s1:class_stats", "subject:s1:distribution", "at_risk:s1"} {
		if err := manager.Stats.Get(ctx, key, &dest); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Expected %s dropped, got %v", key, err)
		}
	}
	// Other subjects are untouched.
	if err := manager.Stats.Get(ctx, "subject:s2:class_stats", &dest); err != nil {
		t.Errorf("Expected subject:s2 to survive, got %v", err)
	}
}
