package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nutriview/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value []byte
		ttl   time.Duration
	}{
		{
			name:  "store and retrieve bytes",
			key:   "test-key-1",
			value: []byte("test-value"),
			ttl:   1 * time.Minute,
		},
		{
			name:  "store and retrieve json payload",
			key:   "test-key-2",
			value: []byte(`{"source":"Fetched","uri":"https://img.example/pizza.jpg"}`),
			ttl:   1 * time.Minute,
		},
		{
			name:  "store with short TTL",
			key:   "test-key-3",
			value: []byte("expires-soon"),
			ttl:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				_, err := cache.Get(ctx, tt.key)
				if !errors.Is(err, domain.ErrCacheMiss) {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %s, want %s", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	value := []byte("original")
	if err := cache.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("Get() = %s, want original", got)
	}

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("Get() after caller mutation = %s, want original", again)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "non-existent-key")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	_, err := cache.Get(ctx, key)
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	key := "exists-test"

	exists, err := cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, key, []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	exists, err = cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	shortKey := "short-ttl"
	if err := cache.Set(ctx, shortKey, []byte("value"), 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	exists, err = cache.Exists(ctx, shortKey)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	_ = cache.Set(ctx, "live", []byte("1"), time.Hour)
	_ = cache.Set(ctx, "dead", []byte("2"), time.Millisecond)

	cache.removeExpired(time.Now().Add(time.Second))

	if n := cache.items.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1 after sweeping expired entries", n)
	}
	if ok := cache.items.Contains("dead"); ok {
		t.Errorf("expired entry still present after sweep")
	}
}

func TestMemoryCache_BoundedEntries(t *testing.T) {
	const limit = 3
	cache := NewMemoryCache(limit)
	defer cache.Close()
	ctx := context.Background()

	for i := 0; i < limit; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	// touch k0 so k1 becomes least recently used
	if _, err := cache.Get(ctx, "k0"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	for i := limit; i < limit+10; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if n := cache.items.Len(); n > limit {
			t.Fatalf("Len() = %d, exceeds limit %d", n, limit)
		}
	}

	if _, err := cache.Get(ctx, "k1"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get(k1) error = %v, want cache miss after eviction", err)
	}
	if _, err := cache.Get(ctx, "k12"); err != nil {
		t.Errorf("Get(k12) error = %v, want newest entry retained", err)
	}
}

func TestMemoryCache_LeastRecentlyUsedEvictedFirst(t *testing.T) {
	cache := NewMemoryCache(2)
	defer cache.Close()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "b", []byte("2"), time.Minute)
	if _, err := cache.Get(ctx, "a"); err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}
	_ = cache.Set(ctx, "c", []byte("3"), time.Minute)

	if exists, _ := cache.Exists(ctx, "b"); exists {
		t.Errorf("Exists(b) = true, want least recently used entry evicted")
	}
	if exists, _ := cache.Exists(ctx, "a"); !exists {
		t.Errorf("Exists(a) = false, want recently read entry kept")
	}
}

func TestMemoryCache_DefaultLimit(t *testing.T) {
	cache := NewMemoryCache(-1)
	defer cache.Close()
	ctx := context.Background()

	for i := 0; i < DefaultMaxEntries+5; i++ {
		_ = cache.Set(ctx, fmt.Sprintf("k%d", i), nil, time.Minute)
	}

	if n := cache.items.Len(); n != DefaultMaxEntries {
		t.Errorf("Len() = %d, want %d", n, DefaultMaxEntries)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", id)
			if err := cache.Set(ctx, key, []byte(key), 1*time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(0)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
