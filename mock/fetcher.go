package mock

import (
	"context"

	"github.com/mfialko/folio"
)

var _ folio.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of folio.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, req *folio.Request) (*folio.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, req *folio.Request) (*folio.Response, error) {
	return f.FetchFn(ctx, req)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
