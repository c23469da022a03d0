package media

import (
	"os"
	"sync"
	"time"
)

type cachedDuration struct {
	seconds float64
	modTime time.Time
}

// DurationCache caches media durations to avoid repeated ffprobe calls.
// Local files are re-probed when their modification time changes.
type DurationCache struct {
	cache map[string]cachedDuration
	mu    sync.RWMutex
}

// NewDurationCache creates a new duration cache.
func NewDurationCache() *DurationCache {
	return &DurationCache{
		cache: make(map[string]cachedDuration),
	}
}

// Get retrieves a cached duration.
func (c *DurationCache) Get(source string) (float64, bool) {
	c.mu.RLock()
	entry, ok := c.cache[source]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if mod, ok := modTime(source); ok && !mod.Equal(entry.modTime) {
		c.Remove(source)
		return 0, false
	}
	return entry.seconds, true
}

// Set stores a duration in the cache.
func (c *DurationCache) Set(source string, seconds float64) {
	mod, _ := modTime(source)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[source] = cachedDuration{seconds: seconds, modTime: mod}
}

// Remove removes a specific source from the cache.
func (c *DurationCache) Remove(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, source)
}

// Size returns the number of cached entries.
func (c *DurationCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// modTime returns the modification time for local files. URLs report false.
func modTime(source string) (time.Time, bool) {
	info, err := os.Stat(source)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
