package watch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheTTL is how long an upstream answer stays fresh.
const DefaultCacheTTL = time.Hour

// CacheEntry is one cached upstream answer.
type CacheEntry struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // URL the version came from
}

type cacheFile struct {
	Entries map[string]CacheEntry `json:"entries"`
}

// Cache persists upstream answers between runs so repeated watches do not
// hammer the package indexes. Entries expire after TTL.
type Cache struct {
	Entries map[string]CacheEntry
	TTL     time.Duration

	path    string
	mu      sync.RWMutex
	nowFunc func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets a custom TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.TTL = ttl
	}
}

// WithNowFunc injects the clock, for tests.
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowFunc = fn
	}
}

// NewCache loads cache.json from configDir, creating the directory when
// needed. A missing or unreadable file starts an empty cache; whatever was
// there gets overwritten on the next save.
func NewCache(configDir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		Entries: make(map[string]CacheEntry),
		TTL:     DefaultCacheTTL,
		path:    filepath.Join(configDir, "cache.json"),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}

	if err := cache.load(); err != nil && !os.IsNotExist(err) {
		cache.Entries = make(map[string]CacheEntry)
	}
	return cache, nil
}

func (c *Cache) load() error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var cf cacheFile
	if err := json.NewDecoder(f).Decode(&cf); err != nil {
		return fmt.Errorf("cache file is corrupted: %w", err)
	}
	if cf.Entries != nil {
		c.Entries = cf.Entries
	}
	return nil
}

// Get returns the cached version for pkg when present and fresh.
func (c *Cache) Get(pkg string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.Entries[pkg]
	if !ok || !c.fresh(entry) {
		return "", false
	}
	return entry.Version, true
}

// fresh reports whether an entry is younger than the TTL.
func (c *Cache) fresh(entry CacheEntry) bool {
	return c.nowFunc().Sub(entry.Timestamp) < c.TTL
}

// Set stores an answer stamped with the current time and saves to disk.
func (c *Cache) Set(pkg, version, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries[pkg] = CacheEntry{
		Version:   version,
		Timestamp: c.nowFunc(),
		Source:    source,
	}

	data, err := json.MarshalIndent(cacheFile{Entries: c.Entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	return writeFileAtomic(c.path, data)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Entries)
}

// writeFileAtomic writes through a temp file and renames, so a crash
// mid-write never leaves a torn file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}
