package main

import (
	"fmt"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/worker"
)

// Run executes the sync command. It dispatches a background sync event
// against the configured cache generation, refreshing the stored
// navigation index from the origin.
func (c *SyncCmd) Run(deps *Dependencies) error {
	w := &worker.Worker{
		Storage:  deps.Storage,
		Fetcher:  deps.Fetcher,
		Notifier: deps.Notifier,
		Version:  deps.Config.Version,
		Prefix:   deps.Config.CachePrefix,
		IndexURL: deps.Config.Index,
		SyncTag:  deps.Config.SyncTag,
		Mode:     worker.Mode(deps.Config.Mode),
		Logger:   deps.Logger,
	}

	dispatcher := worker.NewDispatcher()
	w.Register(dispatcher)

	tag := c.Tag
	if tag == "" {
		tag = deps.Config.SyncTag
	}

	if res := <-dispatcher.Dispatch(deps.Ctx, worker.Event{Type: worker.EventSync, Tag: tag}); res.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", folio.ErrorMessage(res.Err))
		return res.Err
	}

	fmt.Fprintf(deps.Stdout, "Sync %q dispatched against %s\n", tag, w.CacheName())
	return nil
}
