// Package yaml loads deployment configuration for the reading
// application: the cache version, the worker mode, and the precache
// manifest.
package yaml

import (
	"os"

	"github.com/mfialko/folio"
	"gopkg.in/yaml.v3"
)

// Config describes one deployment of the reading application.
type Config struct {
	// Version tags the cache generation. Bumping it at deploy time
	// retires the previous generation's cache on activation.
	Version string `yaml:"version"`

	// Mode selects offline caching or pass-through behavior.
	Mode string `yaml:"mode"`

	// CachePrefix names cache generations.
	CachePrefix string `yaml:"cache_prefix"`

	// Shell is the application document served when a navigation
	// fails offline.
	Shell string `yaml:"shell"`

	// Index is the navigation manifest resource refreshed by
	// background sync.
	Index string `yaml:"index"`

	// SyncTag triggers the index refresh.
	SyncTag string `yaml:"sync_tag"`

	// Precache lists the asset paths stored at install.
	Precache []string `yaml:"precache"`
}

// Worker modes accepted by Validate.
const (
	ModeOffline     = "offline"
	ModePassthrough = "passthrough"
)

// DefaultConfig returns the stock deployment configuration: offline
// caching of the application shell, its bundles, and the PWA surface.
func DefaultConfig() *Config {
	return &Config{
		Version:     "v1",
		Mode:        ModeOffline,
		CachePrefix: "folio-static",
		Shell:       "/index.html",
		Index:       "/content/index.json",
		SyncTag:     "refresh-index",
		Precache: []string{
			"/",
			"/index.html",
			"/styles.css",
			"/app.js",
			"/vendor/marked.min.js",
			"/vendor/highlight.min.js",
			"/vendor/highlight.css",
			"/manifest.webmanifest",
			"/icons/icon-192.png",
			"/icons/icon-512.png",
		},
	}
}

// Load reads a config file, filling absent fields from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, folio.Errorf(folio.EINVALID, "invalid config %q: %s", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return folio.Errorf(folio.EINVALID, "config version required")
	}
	if c.Mode != ModeOffline && c.Mode != ModePassthrough {
		return folio.Errorf(folio.EINVALID, "config mode must be %q or %q, got %q", ModeOffline, ModePassthrough, c.Mode)
	}
	return nil
}
