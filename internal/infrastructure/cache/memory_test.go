package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/expirylens/backend/internal/domain"
)

// newTestCache returns a cache whose clock is controlled by the returned func
func newTestCache(t *testing.T) (*MemoryCache, func(time.Duration)) {
	t.Helper()

	cache := NewMemoryCache(time.Hour)
	t.Cleanup(func() { cache.Close() })

	var mu sync.Mutex
	current := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}
	return cache, advance
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	expiry := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExpiryResult{
		ExpiryDate: &expiry,
		Status:     domain.StatusFound,
		Category:   "milk",
		Threshold:  time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC),
		Source:     "engine",
	}

	if err := cache.Set(ctx, "expiry:abc", stored, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "expiry:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	raw, ok := got.(json.RawMessage)
	if !ok {
		t.Fatalf("Get() returned %T, want json.RawMessage", got)
	}

	var decoded domain.ExpiryResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if decoded.Status != domain.StatusFound || decoded.Category != "milk" {
		t.Errorf("decoded = %+v, want found/milk", decoded)
	}
	if decoded.ExpiryDate == nil || !decoded.ExpiryDate.Equal(expiry) {
		t.Errorf("ExpiryDate = %v, want %v", decoded.ExpiryDate, expiry)
	}
}

func TestMemoryCache_StoredValueIsDetached(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	stored := &domain.ExpiryResult{Status: domain.StatusNotFound}
	if err := cache.Set(ctx, "k", stored, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	stored.Status = domain.StatusFound

	got, _ := cache.Get(ctx, "k")
	var decoded domain.ExpiryResult
	if err := json.Unmarshal(got.(json.RawMessage), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Status != domain.StatusNotFound {
		t.Errorf("Status = %q, want %q (mutation leaked into cache)", decoded.Status, domain.StatusNotFound)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache, advance := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "short", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	advance(30 * time.Second)
	if _, err := cache.Get(ctx, "short"); err != nil {
		t.Errorf("Get() before expiry error = %v", err)
	}

	advance(31 * time.Second)
	if _, err := cache.Get(ctx, "short"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}

	exists, err := cache.Exists(ctx, "short")
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_SetUnencodable(t *testing.T) {
	cache, _ := newTestCache(t)

	err := cache.Set(context.Background(), "bad", make(chan int), time.Minute)
	if err == nil {
		t.Fatal("Set() error = nil, want encoding error")
	}
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0", size)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "delete-test", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "delete-test"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, "delete-test"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	cache, advance := newTestCache(t)
	ctx := context.Background()

	for i, ttl := range []time.Duration{time.Minute, time.Minute, time.Hour} {
		if err := cache.Set(ctx, string(rune('a'+i)), i, ttl); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	advance(2 * time.Minute)

	if removed := cache.sweep(); removed != 2 {
		t.Errorf("sweep() = %d, want 2", removed)
	}
	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1 after sweep", size)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := cache.Set(ctx, string(rune('a'+i)), i, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(time.Millisecond)

	if err := cache.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
