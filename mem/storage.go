// Package mem provides an in-memory implementation of the cache
// storage interfaces. It backs tests and deployments that do not need
// the cache to survive a restart.
package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/mfialko/folio"
)

// Ensure Storage implements folio.CacheStorage at compile time.
var _ folio.CacheStorage = (*Storage)(nil)

// Storage holds named cache generations in process memory. The store
// is shared by everything holding a reference to it, mirroring how
// browser cache storage is shared across worker generations.
type Storage struct {
	mu     sync.RWMutex
	caches map[string]*Cache
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{caches: make(map[string]*Cache)}
}

// Open returns the named cache, creating it if absent.
func (s *Storage) Open(ctx context.Context, name string) (folio.Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[name]
	if !ok {
		c = &Cache{entries: make(map[string]*folio.Response)}
		s.caches[name] = c
	}
	return c, nil
}

// Delete removes a cache generation and all its entries.
func (s *Storage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, name)
	return nil
}

// Names lists all cache generations in sorted order.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Ensure Cache implements folio.Cache at compile time.
var _ folio.Cache = (*Cache)(nil)

// Cache is one in-memory generation. Concurrent writes to the same
// key are last-write-wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*folio.Response
}

// Match returns a copy of the stored response for url.
func (c *Cache) Match(ctx context.Context, url string) (*folio.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.entries[url]
	if !ok {
		return nil, folio.Errorf(folio.ENOTFOUND, "no cache entry for %q", url)
	}
	return resp.Clone(), nil
}

// Put stores a copy of the response keyed by url.
func (c *Cache) Put(ctx context.Context, url string, resp *folio.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = resp.Clone()
	return nil
}

// Delete removes the entry for url, if present.
func (c *Cache) Delete(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
	return nil
}

// Keys returns all entry keys in sorted order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
