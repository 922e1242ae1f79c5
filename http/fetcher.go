// Package http provides HTTP implementations of the network fetcher
// and the serving surface of the reading application: the static
// origin, the worker gateway, and the PWA registration endpoints.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mfialko/folio"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements folio.Fetcher at compile time.
var _ folio.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources over HTTP from an upstream origin.
// Origin-relative request URLs are resolved against the base URL;
// responses from other hosts are marked opaque.
type Fetcher struct {
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRateLimit caps outgoing requests at rps per second with a burst
// of 1. No limit is applied by default.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewFetcher creates a Fetcher for the given origin base URL.
func NewFetcher(baseURL string, opts ...Option) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, folio.Errorf(folio.EINVALID, "invalid origin URL %q", baseURL)
	}

	f := &Fetcher{
		base:    base,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f, nil
}

// Fetch performs the request and returns a response snapshot. A
// non-2xx status is a response, not an error.
func (f *Fetcher) Fetch(ctx context.Context, req *folio.Request) (*folio.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, folio.Errorf(folio.EINVALID, "invalid request URL %q", req.URL)
	}
	resolved := f.base.ResolveReference(target)

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hr, err := http.NewRequestWithContext(ctx, method, resolved.String(), nil)
	if err != nil {
		return nil, err
	}

	hresp, err := f.client.Do(hr)
	if err != nil {
		return nil, err
	}
	defer hresp.Body.Close()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, err
	}

	respType := folio.ResponseBasic
	if resolved.Host != f.base.Host {
		respType = folio.ResponseOpaque
	}

	return &folio.Response{
		Status: hresp.StatusCode,
		Type:   respType,
		Header: flattenHeader(hresp.Header),
		Body:   body,
	}, nil
}

// Close releases resources. No-op for an HTTP fetcher.
func (f *Fetcher) Close() error {
	return nil
}

// flattenHeader keeps the first value of each header.
func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
