package worker

import (
	"context"
	"sync"

	"github.com/mfialko/folio"
)

// EventType identifies a worker lifecycle or runtime event.
type EventType string

// Event types.
const (
	EventInstall           EventType = "install"
	EventActivate          EventType = "activate"
	EventFetch             EventType = "fetch"
	EventSync              EventType = "sync"
	EventPush              EventType = "push"
	EventNotificationClick EventType = "notificationclick"
)

// Event carries the payload of one dispatched worker event. Only the
// fields relevant to the event type are set.
type Event struct {
	Type    EventType
	Request *folio.Request // fetch
	Tag     string         // sync
	Payload []byte         // push
}

// Result is the deferred outcome of a dispatched event. Response is
// set only for fetch events.
type Result struct {
	Response *folio.Response
	Err      error
}

// HandlerFunc handles one dispatched event.
type HandlerFunc func(ctx context.Context, ev Event) (*folio.Response, error)

// Dispatcher routes events to registered handlers. Each dispatched
// event runs as its own task and Dispatch returns a channel yielding
// the handler's result exactly once, mirroring the browser's
// waitUntil/respondWith contract. Handlers share no state beyond the
// cache store itself.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType]HandlerFunc
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventType]HandlerFunc)}
}

// Handle registers the handler for an event type, replacing any
// previous registration.
func (d *Dispatcher) Handle(t EventType, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = fn
}

// Dispatch runs the handler for the event in its own task. The
// returned channel is buffered; the result can be awaited at any
// point. Dispatching an event with no handler yields ENOTFOUND.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) <-chan Result {
	out := make(chan Result, 1)

	d.mu.RLock()
	fn, ok := d.handlers[ev.Type]
	d.mu.RUnlock()

	if !ok {
		out <- Result{Err: folio.Errorf(folio.ENOTFOUND, "no handler for event %q", ev.Type)}
		return out
	}

	go func() {
		resp, err := fn(ctx, ev)
		out <- Result{Response: resp, Err: err}
	}()

	return out
}

// Register wires all of the worker's event handlers into the
// dispatcher.
func (w *Worker) Register(d *Dispatcher) {
	d.Handle(EventInstall, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return nil, w.Install(ctx)
	})
	d.Handle(EventActivate, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return nil, w.Activate(ctx)
	})
	d.Handle(EventFetch, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return w.Fetch(ctx, ev.Request)
	})
	d.Handle(EventSync, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return nil, w.Sync(ctx, ev.Tag)
	})
	d.Handle(EventPush, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return nil, w.Push(ctx, ev.Payload)
	})
	d.Handle(EventNotificationClick, func(ctx context.Context, ev Event) (*folio.Response, error) {
		return nil, w.NotificationClick(ctx)
	})
}

// Run drives the lifecycle for a fresh generation: install, then
// activate. An install failure leaves any previous generation's
// caches untouched and in control.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.Install(ctx); err != nil {
		return err
	}
	return w.Activate(ctx)
}
