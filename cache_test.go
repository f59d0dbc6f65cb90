package langsync

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func testEntry(body string) *CacheEntry {
	return &CacheEntry{Result: &Result{StatusCode: 200, Body: []byte(body)}}
}

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("key1", testEntry(`{"a":1}`), time.Minute)

	entry, found := cache.Get("key1")
	if !found {
		t.Fatal("Expected to find cached entry")
	}
	if string(entry.Result.Body) != `{"a":1}` {
		t.Errorf("Unexpected body: %s", entry.Result.Body)
	}

	if _, found := cache.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("key1", testEntry(`{}`), 20*time.Millisecond)

	if _, found := cache.Get("key1"); !found {
		t.Fatal("Entry should be live before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if _, found := cache.Get("key1"); found {
		t.Error("Entry past expiresAt must behave as absent")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("key1", testEntry(`{}`), time.Minute)
	cache.Delete("key1")

	if _, found := cache.Get("key1"); found {
		t.Error("Deleted entry should be absent")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryCache()

	for i := 0; i < 50; i++ {
		cache.Set(fmt.Sprintf("key%d", i), testEntry(`{}`), time.Minute)
	}
	if cache.Len() != 50 {
		t.Fatalf("Expected 50 entries, got %d", cache.Len())
	}

	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", cache.Len())
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%7)
				cache.Set(key, testEntry(`{}`), time.Minute)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()
}
