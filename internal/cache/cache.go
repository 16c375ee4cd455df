// Package cache keeps finished chat answers so a repeated question is served
// without calling the completion provider again.
package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// KeyPrefix namespaces chat answers.
	KeyPrefix = "chat_cache_"
	// DefaultTTL is how long an answer stays fresh.
	DefaultTTL = 24 * time.Hour
)

// Cache maps an utterance key to a previously produced answer.
type Cache interface {
	Lookup(ctx context.Context, key string) (string, bool)
	Store(ctx context.Context, key, response string)
}

// Key derives the cache key of an utterance. The literal text is used, so equal
// utterances share an answer.
func Key(utterance string) string {
	return KeyPrefix + utterance
}

// Entry is a stored answer. Timestamp is in Unix milliseconds.
type Entry struct {
	Response  string `json:"response"`
	Timestamp int64  `json:"timestamp"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-e.Timestamp < ttl.Milliseconds()
}

// MemoryCache is an in-process Cache with lazy expiry on lookup.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(ttl time.Duration, opts ...Option) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &MemoryCache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the answer stored under key while it is fresh. A stale entry
// is removed.
func (c *MemoryCache) Lookup(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !entry.Fresh(c.now(), c.ttl) {
		delete(c.entries, key)
		return "", false
	}
	return entry.Response, true
}

// Store overwrites key with response, stamped with the current time.
func (c *MemoryCache) Store(_ context.Context, key, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Response: response, Timestamp: c.now().UnixMilli()}
}

// Sweep removes every entry that is stale at now and returns how many went.
func (c *MemoryCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !entry.Fresh(now, c.ttl) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, stale ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Noop never holds anything.
type Noop struct{}

func (Noop) Lookup(context.Context, string) (string, bool) { return "", false }

func (Noop) Store(context.Context, string, string) {}
