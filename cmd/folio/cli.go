package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Index generation.
	Scanner folio.Scanner
	Titles  folio.TitleExtractor
	Writer  folio.IndexWriter

	// Cache worker.
	Config   *yaml.Config
	Storage  folio.CacheStorage
	Fetcher  folio.Fetcher
	Notifier folio.Notifier
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Index IndexCmd `cmd:"" help:"Regenerate the content navigation index"`
	Serve ServeCmd `cmd:"" help:"Serve the reading application through the cache worker"`
	Sync  SyncCmd  `cmd:"" help:"Refresh the cached navigation index"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Content string `arg:"" optional:"" default:"content" help:"Content directory to index"`
	Shallow bool   `help:"Index only the top level of each folder"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Content string `default:"content" help:"Content directory"`
	Static  string `default:"static" help:"Static asset directory"`
	Addr    string `short:"a" default:":8080" help:"Listen address"`
	Config  string `short:"c" help:"Deployment config file"`
	Cache   string `help:"Cache database path (in-memory when empty)"`
	Mode    string `help:"Override the configured worker mode (offline or passthrough)"`
	Origin  string `help:"Upstream origin URL (serves local directories when empty)"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Origin string `required:"" help:"Origin URL to fetch the index from"`
	Cache  string `required:"" help:"Cache database path"`
	Config string `short:"c" help:"Deployment config file"`
	Tag    string `help:"Sync tag (configured sync_tag when empty)"`
}
