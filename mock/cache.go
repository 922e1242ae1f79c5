package mock

import (
	"context"

	"github.com/mfialko/folio"
)

var _ folio.Cache = (*Cache)(nil)

// Cache is a mock implementation of folio.Cache.
type Cache struct {
	MatchFn  func(ctx context.Context, url string) (*folio.Response, error)
	PutFn    func(ctx context.Context, url string, resp *folio.Response) error
	DeleteFn func(ctx context.Context, url string) error
	KeysFn   func(ctx context.Context) ([]string, error)
}

func (c *Cache) Match(ctx context.Context, url string) (*folio.Response, error) {
	return c.MatchFn(ctx, url)
}

func (c *Cache) Put(ctx context.Context, url string, resp *folio.Response) error {
	return c.PutFn(ctx, url, resp)
}

func (c *Cache) Delete(ctx context.Context, url string) error {
	return c.DeleteFn(ctx, url)
}

func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	return c.KeysFn(ctx)
}

var _ folio.CacheStorage = (*CacheStorage)(nil)

// CacheStorage is a mock implementation of folio.CacheStorage.
type CacheStorage struct {
	OpenFn   func(ctx context.Context, name string) (folio.Cache, error)
	DeleteFn func(ctx context.Context, name string) error
	NamesFn  func(ctx context.Context) ([]string, error)
}

func (s *CacheStorage) Open(ctx context.Context, name string) (folio.Cache, error) {
	return s.OpenFn(ctx, name)
}

func (s *CacheStorage) Delete(ctx context.Context, name string) error {
	return s.DeleteFn(ctx, name)
}

func (s *CacheStorage) Names(ctx context.Context) ([]string, error) {
	return s.NamesFn(ctx)
}
