package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/worker"
)

// Ensure Gateway implements http.Handler at compile time.
var _ http.Handler = (*Gateway)(nil)

// Gateway routes incoming requests through the worker's fetch event,
// mirroring the browser's request interception. Each request is
// dispatched as its own task and the gateway awaits its deferred
// result.
type Gateway struct {
	Dispatcher *worker.Dispatcher
	Logger     *slog.Logger
}

// ServeHTTP adapts the request to a worker fetch event and writes the
// worker's response back. A fetch that fails outright surfaces as a
// 502 to the caller, the same way an unhandled rejection surfaces to
// the page.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &folio.Request{
		Method:     r.Method,
		URL:        r.URL.RequestURI(),
		Navigation: isNavigation(r),
	}

	res := <-g.Dispatcher.Dispatch(r.Context(), worker.Event{
		Type:    worker.EventFetch,
		Request: req,
	})
	if res.Err != nil {
		g.logger().Error("fetch failed", "url", req.URL, "err", res.Err)
		http.Error(w, "fetch failed", http.StatusBadGateway)
		return
	}

	for k, v := range res.Response.Header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.Response.Status)
	_, _ = w.Write(res.Response.Body)
}

// isNavigation reports whether the request is a document load.
func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (g *Gateway) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
