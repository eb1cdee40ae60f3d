package cache

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

// newTestCache returns a cache whose clock advances one second per reading
func newTestCache(config Config) *Cache {
	c := New(config)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return c
}

func TestCache_GetPut(t *testing.T) {
	cache := newTestCache(Config{MaxSize: 1 << 20})

	key := Key("gauge", "40")
	data := []byte("\x89PNG snapshot")
	cache.Put(key, data)

	retrieved, found := cache.Get(key)
	if !found {
		t.Fatal("Data not found in cache")
	}
	if !bytes.Equal(retrieved, data) {
		t.Errorf("Retrieved data doesn't match: got %q, want %q", retrieved, data)
	}

	if _, found := cache.Get("non-existent"); found {
		t.Error("Found non-existent key")
	}

	stats := cache.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.TotalSize != int64(len(data)) || stats.EntryCount != 1 {
		t.Errorf("size/count = %d/%d", stats.TotalSize, stats.EntryCount)
	}
}

func TestCache_PutReplaces(t *testing.T) {
	cache := newTestCache(Config{})
	cache.Put("k", []byte("first"))
	cache.Put("k", []byte("second!"))

	got, _ := cache.Get("k")
	if string(got) != "second!" {
		t.Errorf("got %q", got)
	}
	if stats := cache.GetStats(); stats.TotalSize != 7 || stats.EntryCount != 1 {
		t.Errorf("size/count = %d/%d, want 7/1", stats.TotalSize, stats.EntryCount)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache := newTestCache(Config{})
	cache.Put("a", []byte("aaa"))
	cache.Put("b", []byte("bbb"))

	cache.Delete("a")
	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Error("a found after delete")
	}

	cache.Clear()
	if _, found := cache.Get("b"); found {
		t.Error("b found after clear")
	}
	if stats := cache.GetStats(); stats.TotalSize != 0 || stats.EntryCount != 0 {
		t.Errorf("size/count = %d/%d after clear", stats.TotalSize, stats.EntryCount)
	}
}

func TestCache_Eviction(t *testing.T) {
	tests := []struct {
		name     string
		strategy EvictionStrategy
		evicted  string
	}{
		// key1 is read after key2 was written, so key2 is least recent
		{"LRU", LRU, "key2"},
		// key2 is never read
		{"LFU", LFU, "key2"},
		// key1 was written first
		{"FIFO", FIFO, "key1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newTestCache(Config{MaxSize: 100, Strategy: tt.strategy})
			cache.Put("key1", bytes.Repeat([]byte("a"), 40))
			cache.Put("key2", bytes.Repeat([]byte("b"), 40))
			cache.Get("key1")

			cache.Put("key3", bytes.Repeat([]byte("c"), 40))

			for _, key := range []string{"key1", "key2", "key3"} {
				_, found := cache.Get(key)
				if want := key != tt.evicted; found != want {
					t.Errorf("%s present = %v, want %v", key, found, want)
				}
			}
			if stats := cache.GetStats(); stats.Evictions != 1 {
				t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
			}
		})
	}
}

func TestCache_Oversized(t *testing.T) {
	cache := newTestCache(Config{MaxSize: 10})
	cache.Put("small", []byte("12345"))
	cache.Put("big", bytes.Repeat([]byte("x"), 11))

	if _, found := cache.Get("big"); found {
		t.Error("entry larger than the cache was stored")
	}
	if _, found := cache.Get("small"); !found {
		t.Error("oversized put evicted an existing entry")
	}
}

func TestCache_Expiration(t *testing.T) {
	// Each clock reading is one second later
	cache := newTestCache(Config{MaxAge: 2 * time.Second})
	cache.Put("k", []byte("v"))

	if _, found := cache.Get("k"); !found {
		t.Fatal("entry expired too early")
	}
	if _, found := cache.Get("k"); found {
		t.Error("entry should have expired")
	}
	if stats := cache.GetStats(); stats.EntryCount != 0 {
		t.Errorf("expired entry still counted: %d", stats.EntryCount)
	}
}

func TestCache_KeyGeneration(t *testing.T) {
	if Key("a", "b") != Key("a", "b") {
		t.Error("Key is not deterministic")
	}
	if Key("ab") == Key("a", "b") {
		t.Error("Key does not separate inputs")
	}
	if len(Key("x")) != 64 {
		t.Errorf("Key length = %d, want 64", len(Key("x")))
	}
}

func TestCache_Concurrent(t *testing.T) {
	cache := New(Config{MaxSize: 1 << 10})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := Key(string(rune('a'+i)), string(rune('a'+j%10)))
				cache.Put(key, bytes.Repeat([]byte{byte(j)}, 32))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if stats := cache.GetStats(); stats.TotalSize > 1<<10 {
		t.Errorf("cache grew past its limit: %d", stats.TotalSize)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	cache := New(DefaultConfig())
	key := Key("bench")
	cache.Put(key, make([]byte, 4096))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(key)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    EvictionStrategy
		wantErr bool
	}{
		{"", LRU, false},
		{"lru", LRU, false},
		{"LFU", LFU, false},
		{"fifo", FIFO, false},
		{"random", LRU, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
