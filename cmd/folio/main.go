package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mfialko/folio"
	"github.com/mfialko/folio/fs"
	foliohttp "github.com/mfialko/folio/http"
	"github.com/mfialko/folio/mem"
	folioslog "github.com/mfialko/folio/slog"
	"github.com/mfialko/folio/sqlite"
	"github.com/mfialko/folio/yaml"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database opened for persistent cache storage.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they are used instead
	// of the implementations wired from flags.
	Storage  folio.CacheStorage
	Fetcher  folio.Fetcher
	Notifier folio.Notifier
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("folio"),
		kong.Description("Offline-first reader for folders of markdown notes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'folio --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire command-specific dependencies based on command
	switch cmd {
	case "index":
		deps.Scanner = &fs.Scanner{Shallow: cli.Index.Shallow}
		deps.Titles = &fs.TitleExtractor{Logger: deps.Logger}
		deps.Writer = &fs.Writer{}

	case "serve":
		cfg, err := loadConfig(cli.Serve.Config)
		if err != nil {
			return err
		}
		if cli.Serve.Mode != "" {
			cfg.Mode = cli.Serve.Mode
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		deps.Config = cfg

		if err := m.wireStorage(deps, cli.Serve.Cache); err != nil {
			return err
		}

		switch {
		case m.Fetcher != nil:
			deps.Fetcher = m.Fetcher
		case cli.Serve.Origin != "":
			fetcher, err := foliohttp.NewFetcher(cli.Serve.Origin)
			if err != nil {
				return err
			}
			deps.Fetcher = folioslog.NewLoggingFetcher(fetcher, deps.Logger)
		default:
			origin := foliohttp.NewOriginHandler(cli.Serve.Content, cli.Serve.Static)
			deps.Fetcher = folioslog.NewLoggingFetcher(&foliohttp.HandlerFetcher{Handler: origin}, deps.Logger)
		}
		deps.Notifier = m.notifier(deps)

	case "sync":
		cfg, err := loadConfig(cli.Sync.Config)
		if err != nil {
			return err
		}
		deps.Config = cfg

		if err := m.wireStorage(deps, cli.Sync.Cache); err != nil {
			return err
		}

		if m.Fetcher != nil {
			deps.Fetcher = m.Fetcher
		} else {
			fetcher, err := foliohttp.NewFetcher(cli.Sync.Origin, foliohttp.WithTimeout(30*time.Second))
			if err != nil {
				return err
			}
			deps.Fetcher = folioslog.NewLoggingFetcher(fetcher, deps.Logger)
		}
		deps.Notifier = m.notifier(deps)
	}

	return kongCtx.Run(deps)
}

// wireStorage selects the cache store: the in-memory store by default,
// the SQLite store when a database path is given.
func (m *Main) wireStorage(deps *Dependencies, path string) error {
	if m.Storage != nil {
		deps.Storage = m.Storage
		return nil
	}

	if path == "" {
		deps.Storage = folioslog.NewLoggingStorage(mem.NewStorage(), deps.Logger)
		return nil
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open cache database at %q: %w", path, err)
	}
	deps.Storage = folioslog.NewLoggingStorage(sqlite.NewStorage(m.DB), deps.Logger)
	return nil
}

func (m *Main) notifier(deps *Dependencies) folio.Notifier {
	if m.Notifier != nil {
		return m.Notifier
	}
	return folioslog.NewNotifier(deps.Logger)
}

// loadConfig reads the deployment config, falling back to the stock
// configuration when no file is given.
func loadConfig(path string) (*yaml.Config, error) {
	if path == "" {
		return yaml.DefaultConfig(), nil
	}
	return yaml.Load(path)
}
