package folio

import "context"

// ResponseType mirrors the fetch response type taxonomy: basic for
// same-origin responses, opaque for cross-origin ones.
type ResponseType string

// Response types.
const (
	ResponseBasic  ResponseType = "basic"
	ResponseOpaque ResponseType = "opaque"
)

// Request is the worker's view of an intercepted network request.
type Request struct {
	Method string
	URL    string // absolute, or origin-relative path

	// Navigation marks a document load, as opposed to a sub-resource
	// fetch. Navigations get the offline-shell fallback on network
	// failure; sub-resources do not.
	Navigation bool
}

// Response is a snapshot of a network response suitable for caching.
type Response struct {
	Status int
	Type   ResponseType
	Header map[string]string
	Body   []byte
}

// Clone returns a deep copy of the response so the cached snapshot and
// the returned response cannot alias each other.
func (r *Response) Clone() *Response {
	out := &Response{
		Status: r.Status,
		Type:   r.Type,
	}
	if r.Header != nil {
		out.Header = make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			out.Header[k] = v
		}
	}
	if r.Body != nil {
		out.Body = make([]byte, len(r.Body))
		copy(out.Body, r.Body)
	}
	return out
}

// Fetcher retrieves resources from the network or origin backend.
type Fetcher interface {
	// Fetch performs the request and returns a response snapshot.
	// A non-2xx status is a response, not an error; errors mean the
	// request could not complete at all.
	Fetch(ctx context.Context, req *Request) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Cache is one generation's URL-to-response store. Entries are added
// eagerly at install (the precache manifest) or lazily at runtime.
// Concurrent writes to the same key are last-write-wins.
type Cache interface {
	// Match returns the stored response for url.
	// Returns ENOTFOUND if no entry exists.
	Match(ctx context.Context, url string) (*Response, error)

	// Put stores a response snapshot keyed by url, replacing any
	// previous entry.
	Put(ctx context.Context, url string, resp *Response) error

	// Delete removes the entry for url, if present.
	Delete(ctx context.Context, url string) error

	// Keys returns all entry keys in the cache.
	Keys(ctx context.Context) ([]string, error)
}

// CacheStorage manages named cache generations. Exactly one generation
// is current at any time; activation purges all others.
type CacheStorage interface {
	// Open returns the cache with the given name, creating it if it
	// does not exist.
	Open(ctx context.Context, name string) (Cache, error)

	// Delete removes a cache generation and all its entries.
	Delete(ctx context.Context, name string) error

	// Names lists all existing cache generations.
	Names(ctx context.Context) ([]string, error)
}
