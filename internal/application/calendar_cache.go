package application

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// calendarCache keeps recent calendar listings per user and range while events
// remain unchanged. Any event write purges it.
//
// Every purge starts a new generation. A listing read under an older
// generation is not stored, so a read racing a write cannot put stale rows
// back after the purge.
type calendarCache struct {
	mu         sync.Mutex
	generation uint64
	entries    *expirable.LRU[string, []EventResponse]
}

func newCalendarCache(ttl time.Duration, maxEntries int) *calendarCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &calendarCache{entries: expirable.NewLRU[string, []EventResponse](maxEntries, nil, ttl)}
}

func (c *calendarCache) Get(key string) ([]EventResponse, bool) {
	if c == nil {
		return nil, false
	}
	events, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return cloneResponses(events), true
}

// Generation identifies the current cache epoch. Capture it before reading
// from storage and hand it to Store.
func (c *calendarCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Store keeps events unless the cache was purged since generation was read.
func (c *calendarCache) Store(key string, events []EventResponse, generation uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.entries.Add(key, cloneResponses(events))
	return true
}

func (c *calendarCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries.Purge()
}

func buildCalendarCacheKey(userID string, window CalendarRange) string {
	builder := strings.Builder{}
	builder.WriteString(userID)
	builder.WriteString("|")
	builder.WriteString(window.From.UTC().Format(time.RFC3339Nano))
	builder.WriteString("|")
	builder.WriteString(window.To.UTC().Format(time.RFC3339Nano))
	return builder.String()
}
