package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/mfialko/folio"
)

// Ensure HandlerFetcher implements folio.Fetcher at compile time.
var _ folio.Fetcher = (*HandlerFetcher)(nil)

// HandlerFetcher fulfills network fetches by invoking an http.Handler
// directly, so the origin and the worker can share one process
// without a network round trip.
type HandlerFetcher struct {
	Handler http.Handler
}

// Fetch runs the request through the wrapped handler and snapshots
// the response.
func (f *HandlerFetcher) Fetch(ctx context.Context, req *folio.Request) (*folio.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hr, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, err
	}

	rec := httptest.NewRecorder()
	rec.Body = &bytes.Buffer{}
	f.Handler.ServeHTTP(rec, hr)

	return &folio.Response{
		Status: rec.Code,
		Type:   folio.ResponseBasic,
		Header: flattenHeader(rec.Header()),
		Body:   rec.Body.Bytes(),
	}, nil
}

// Close releases resources. No-op for a handler fetcher.
func (f *HandlerFetcher) Close() error {
	return nil
}
