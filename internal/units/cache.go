// Package units resolves and caches `#include` targets (spec.md §4.3,
// §6.2): turning a path written in source into an absolute file, reading
// and compiling it at most once per modification, and rejecting
// `#include` cycles.
//
// Grounded on the teacher's internal/units package (its test files --
// registry_test.go, cache_test.go, search_test.go -- are the only
// surviving artifacts for that package in the retrieved pack, and are
// treated as the behavioral spec for the registry/cache/search API
// shape), adapted from Pascal's named-unit-with-`uses`-clause model to
// mers' plain file-path `#include`: no unit names, no topological
// initialization order, just a resolved path and its compiled content.
package units

import (
	"os"
	"sync"
	"time"

	"github.com/Dummi26/mers/internal/run"
)

// CacheEntry is one cached include's compiled result plus the source
// file's modification time at the point it was compiled.
type CacheEntry struct {
	Stmt    run.Stmt
	ModTime time.Time
}

// Cache maps a resolved absolute path to its most recently compiled
// result, invalidating automatically when the underlying file's mtime
// has moved on (mirrors the teacher's UnitCache file-modification
// invalidation behavior).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]CacheEntry{}}
}

// Get returns the cached Stmt for path, or (nil, false) if absent or
// stale (the file's current mtime no longer matches the cached one, or
// the file is gone). A stale hit is evicted before returning.
func (c *Cache) Get(path string) (run.Stmt, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.ModTime().Equal(entry.ModTime) {
		c.Invalidate(path)
		return nil, false
	}
	return entry.Stmt, true
}

// Put records path's compiled Stmt alongside the mtime it was compiled
// against.
func (c *Cache) Put(path string, stmt run.Stmt, modTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = CacheEntry{Stmt: stmt, ModTime: modTime}
}

// Invalidate evicts path's cached entry, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear evicts every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]CacheEntry{}
}

// Size reports the number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
