// Package worker provides the offline cache worker. It coordinates
// install-time precaching, cache generation garbage collection, and
// runtime cache-vs-network arbitration for the reading application.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/mfialko/folio"
	"github.com/mfialko/folio/bloom"
	"golang.org/x/sync/errgroup"
)

// Mode selects the worker's caching behavior at deploy time. The two
// modes are mutually exclusive; exactly one is active per deployment.
type Mode string

// Worker modes.
const (
	// ModeOffline enables precaching and fetch interception.
	ModeOffline Mode = "offline"

	// ModePassthrough disables caching entirely: no precache, no
	// fetch interception. Generation bookkeeping and push handling
	// are unaffected.
	ModePassthrough Mode = "passthrough"
)

// State of the worker lifecycle.
type State int32

// Lifecycle states, in order. A failed install leaves the worker
// redundant; the previous generation, if any, stays in control.
const (
	StateNew State = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActivated
	StateRedundant
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	}
	return "unknown"
}

// DefaultCachePrefix names cache generations when no prefix is set.
const DefaultCachePrefix = "folio-static"

// defaultPrecacheConcurrency bounds parallel manifest fetches at
// install time.
const defaultPrecacheConcurrency = 8

// Worker is one cache worker generation. Fields are set before the
// first event is dispatched and never mutated afterwards; the cache
// store is the only state shared between event invocations.
type Worker struct {
	Storage  folio.CacheStorage
	Fetcher  folio.Fetcher
	Notifier folio.Notifier

	// Filter, when set, short-circuits cache reads for keys that were
	// never stored. Seeded from surviving keys at activate.
	Filter *bloom.Filter

	// Origin is the scheme://host the worker controls. Requests to
	// other hosts pass through untouched.
	Origin string

	// Version identifies this cache generation.
	Version string

	// Prefix names cache generations; DefaultCachePrefix if empty.
	Prefix string

	// Manifest lists the asset paths precached at install.
	Manifest []string

	// ShellURL is the application shell returned when a navigation
	// fails and the network is unreachable.
	ShellURL string

	// IndexURL is the navigation manifest refreshed by Sync.
	IndexURL string

	// SyncTag is the background sync tag that triggers an index
	// refresh. Other tags are ignored.
	SyncTag string

	// Mode defaults to ModeOffline.
	Mode Mode

	Logger *slog.Logger

	state atomic.Int32

	mu    sync.Mutex
	cache folio.Cache
}

// CacheName returns the versioned name of this generation's cache.
func (w *Worker) CacheName() string {
	prefix := w.Prefix
	if prefix == "" {
		prefix = DefaultCachePrefix
	}
	return prefix + "-" + w.Version
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

func (w *Worker) setState(s State) {
	w.state.Store(int32(s))
}

// Install opens the cache for this generation and precaches the
// manifest. Population is all-or-nothing: any failed fetch aborts the
// install and this generation never activates. On success the worker
// is immediately ready to replace a waiting previous generation.
func (w *Worker) Install(ctx context.Context) error {
	w.setState(StateInstalling)

	cache, err := w.Storage.Open(ctx, w.CacheName())
	if err != nil {
		w.setState(StateRedundant)
		return fmt.Errorf("open cache %q: %w", w.CacheName(), err)
	}
	w.setCache(cache)

	if w.Mode != ModePassthrough {
		if err := w.precache(ctx, cache); err != nil {
			w.setState(StateRedundant)
			return err
		}
	}

	// Equivalent of skipWaiting: do not wait for open pages to close.
	w.setState(StateInstalled)
	w.logger().Info("worker installed", "cache", w.CacheName(), "precached", len(w.Manifest), "mode", w.mode())
	return nil
}

// precache fetches every manifest URL concurrently and stores the
// responses. The first failure cancels the rest; entries stored before
// the failure are left behind in the never-activated cache.
func (w *Worker) precache(ctx context.Context, cache folio.Cache) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultPrecacheConcurrency)

	for _, u := range w.Manifest {
		g.Go(func() error {
			resp, err := w.Fetcher.Fetch(gctx, &folio.Request{Method: http.MethodGet, URL: u})
			if err != nil {
				return fmt.Errorf("precache %s: %w", u, err)
			}
			if resp.Status != http.StatusOK {
				return folio.Errorf(folio.EUNAVAILABLE, "precache %s: status %d", u, resp.Status)
			}

			key := w.cacheKey(u)
			if err := cache.Put(gctx, key, resp); err != nil {
				return fmt.Errorf("precache %s: %w", u, err)
			}
			w.noteKey(key)
			return nil
		})
	}

	return g.Wait()
}

// Activate garbage-collects cache generations from prior deployments
// and takes control immediately. At most one generation survives.
func (w *Worker) Activate(ctx context.Context) error {
	w.setState(StateActivating)

	names, err := w.Storage.Names(ctx)
	if err != nil {
		return fmt.Errorf("list caches: %w", err)
	}

	current := w.CacheName()
	for _, name := range names {
		if name == current {
			continue
		}
		if err := w.Storage.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete cache %q: %w", name, err)
		}
		w.logger().Info("purged stale cache", "cache", name)
	}

	cache, err := w.currentCache(ctx)
	if err != nil {
		return err
	}
	w.seedFilter(ctx, cache)

	// Equivalent of clients.claim: control open pages without reload.
	w.setState(StateActivated)
	w.logger().Info("worker activated", "cache", current)
	return nil
}

// Fetch applies the cache-first strategy to one intercepted request.
// Only same-origin GET requests are intercepted; everything else goes
// straight to the network and is never cached. Successful basic 200
// responses are stored on the way back; a failed navigation falls
// back to the cached application shell.
func (w *Worker) Fetch(ctx context.Context, req *folio.Request) (*folio.Response, error) {
	if w.Mode == ModePassthrough || req.Method != http.MethodGet || !w.sameOrigin(req.URL) {
		return w.Fetcher.Fetch(ctx, req)
	}

	cache, err := w.currentCache(ctx)
	if err != nil {
		return nil, err
	}

	key := w.cacheKey(req.URL)
	if w.mayContain(key) {
		cached, err := cache.Match(ctx, key)
		if err == nil {
			return cached, nil
		}
		if folio.ErrorCode(err) != folio.ENOTFOUND {
			return nil, err
		}
	}

	resp, err := w.Fetcher.Fetch(ctx, req)
	if err != nil {
		if req.Navigation && w.ShellURL != "" {
			if shell, serr := cache.Match(ctx, w.cacheKey(w.ShellURL)); serr == nil {
				w.logger().Info("serving offline shell", "url", req.URL, "err", err)
				return shell, nil
			}
		}
		return nil, err
	}

	if resp.Status == http.StatusOK && resp.Type == folio.ResponseBasic {
		if perr := cache.Put(ctx, key, resp.Clone()); perr != nil {
			w.logger().Error("cache write failed", "url", key, "err", perr)
		} else {
			w.noteKey(key)
		}
	}

	return resp, nil
}

// Sync handles a background sync event. The configured tag re-fetches
// the navigation manifest and overwrites its cache entry on success.
// Failures are logged and swallowed; the browser's own retry policy
// is the only retry mechanism.
func (w *Worker) Sync(ctx context.Context, tag string) error {
	if tag != w.SyncTag || w.IndexURL == "" || w.Mode == ModePassthrough {
		return nil
	}

	cache, err := w.currentCache(ctx)
	if err != nil {
		return err
	}

	resp, err := w.Fetcher.Fetch(ctx, &folio.Request{Method: http.MethodGet, URL: w.IndexURL})
	if err != nil {
		w.logger().Error("index refresh failed", "url", w.IndexURL, "err", err)
		return nil
	}
	if resp.Status != http.StatusOK {
		w.logger().Error("index refresh failed", "url", w.IndexURL, "status", resp.Status)
		return nil
	}

	key := w.cacheKey(w.IndexURL)
	changed := true
	if prev, err := cache.Match(ctx, key); err == nil {
		changed = xxhash.Sum64(prev.Body) != xxhash.Sum64(resp.Body)
	}

	if err := cache.Put(ctx, key, resp); err != nil {
		w.logger().Error("index refresh failed", "url", key, "err", err)
		return nil
	}
	w.noteKey(key)

	w.logger().Info("index refreshed", "url", key, "changed", changed)
	return nil
}

// Push parses a push payload and displays a notification. A missing
// or malformed payload falls back to the default title and body. Push
// handling never touches the cache.
func (w *Worker) Push(ctx context.Context, payload []byte) error {
	title := folio.DefaultNotificationTitle
	body := folio.DefaultNotificationBody

	if len(payload) > 0 {
		var p folio.PushPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			w.logger().Error("push payload parse failed", "err", err)
		} else {
			if p.Title != "" {
				title = p.Title
			}
			if p.Body != "" {
				body = p.Body
			}
		}
	}

	if w.Notifier == nil {
		return nil
	}
	return w.Notifier.Show(ctx, title, body)
}

// NotificationClick closes the notification by focusing or opening
// the application root.
func (w *Worker) NotificationClick(ctx context.Context) error {
	if w.Notifier == nil {
		return nil
	}
	return w.Notifier.Open(ctx, "/")
}

// sameOrigin reports whether raw targets the worker's origin.
// Origin-relative paths always do.
func (w *Worker) sameOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return true
	}
	if w.Origin == "" {
		return false
	}
	origin, err := url.Parse(w.Origin)
	if err != nil {
		return false
	}
	return u.Scheme == origin.Scheme && u.Host == origin.Host
}

// cacheKey normalizes a same-origin URL to its origin-relative form so
// entries survive an origin host change between deployments.
func (w *Worker) cacheKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	key := u.Path
	if key == "" {
		key = "/"
	}
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

func (w *Worker) setCache(c folio.Cache) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache = c
}

// currentCache returns the generation's cache, opening it on demand
// for processes that resume an already-installed generation.
func (w *Worker) currentCache(ctx context.Context) (folio.Cache, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cache == nil {
		cache, err := w.Storage.Open(ctx, w.CacheName())
		if err != nil {
			return nil, fmt.Errorf("open cache %q: %w", w.CacheName(), err)
		}
		w.cache = cache
	}
	return w.cache, nil
}

// seedFilter loads surviving cache keys into the negative-lookup
// filter. Best effort; a seeding failure only costs extra cache reads.
func (w *Worker) seedFilter(ctx context.Context, cache folio.Cache) {
	if w.Filter == nil {
		return
	}
	keys, err := cache.Keys(ctx)
	if err != nil {
		w.logger().Error("filter seed failed", "err", err)
		return
	}
	for _, k := range keys {
		w.Filter.Add(k)
	}
}

func (w *Worker) noteKey(key string) {
	if w.Filter != nil {
		w.Filter.Add(key)
	}
}

func (w *Worker) mayContain(key string) bool {
	if w.Filter == nil {
		return true
	}
	return w.Filter.Test(key)
}

func (w *Worker) mode() Mode {
	if w.Mode == "" {
		return ModeOffline
	}
	return w.Mode
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
