package offline

import "sync"

// Cache is a versioned response cache. Install pre-populates entries,
// Activate switches to a new version and evicts everything stamped with
// an older one.
type Cache struct {
	mu      sync.RWMutex
	version string
	entries map[string]entry
}

type entry struct {
	version string
	payload []byte
}

// NewCache constructs a cache for the given version identifier.
func NewCache(version string) *Cache {
	return &Cache{
		version: version,
		entries: make(map[string]entry),
	}
}

// Install stores a batch of assets under the current version.
func (c *Cache) Install(assets map[string][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, payload := range assets {
		c.entries[path] = entry{version: c.version, payload: clone(payload)}
	}
}

// Put caches one successful response copy.
func (c *Cache) Put(path string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{version: c.version, payload: clone(payload)}
}

// Get returns the cached copy for a path if it matches the current
// version.
func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok || e.version != c.version {
		return nil, false
	}
	return clone(e.payload), true
}

// Activate adopts a new version and drops entries stamped with any
// other one.
func (c *Cache) Activate(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
	for path, e := range c.entries {
		if e.version != version {
			delete(c.entries, path)
		}
	}
}

// Len reports how many entries are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
