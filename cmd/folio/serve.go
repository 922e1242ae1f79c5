package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/bloom"
	foliohttp "github.com/mfialko/folio/http"
	"github.com/mfialko/folio/worker"
)

// filterCapacity sizes the negative-lookup filter over cache keys.
const (
	filterCapacity      = 4096
	filterFPRate        = 0.01
	shutdownGracePeriod = 5 * time.Second
)

// Run executes the serve command. It drives the worker through its
// install and activate lifecycle, then serves every request through
// the worker's fetch event until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	w := &worker.Worker{
		Storage:  deps.Storage,
		Fetcher:  deps.Fetcher,
		Notifier: deps.Notifier,
		Filter:   bloom.NewFilter(filterCapacity, filterFPRate),
		Origin:   c.Origin,
		Version:  deps.Config.Version,
		Prefix:   deps.Config.CachePrefix,
		Manifest: deps.Config.Precache,
		ShellURL: deps.Config.Shell,
		IndexURL: deps.Config.Index,
		SyncTag:  deps.Config.SyncTag,
		Mode:     worker.Mode(deps.Config.Mode),
		Logger:   deps.Logger,
	}

	dispatcher := worker.NewDispatcher()
	w.Register(dispatcher)

	if res := <-dispatcher.Dispatch(deps.Ctx, worker.Event{Type: worker.EventInstall}); res.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", folio.ErrorMessage(res.Err))
		return res.Err
	}
	if res := <-dispatcher.Dispatch(deps.Ctx, worker.Event{Type: worker.EventActivate}); res.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", folio.ErrorMessage(res.Err))
		return res.Err
	}

	srv := &http.Server{
		Addr:    c.Addr,
		Handler: &foliohttp.Gateway{Dispatcher: dispatcher, Logger: deps.Logger},
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	fmt.Fprintf(deps.Stdout, "Serving on %s (mode %s, cache %s)\n", c.Addr, deps.Config.Mode, w.CacheName())

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
