// Package cli implements the onlyone command-line interface.
//
// Commands cover the drop workflow end to end: validating artwork, rendering
// curved titles, composing print variants, running the full pipeline, serving
// artifacts locally, and inspecting the tracking ledger. All commands support
// --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/buildinfo"
	"github.com/onlyonestudio/onlyone/pkg/cache"
	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/ledger"
)

// appName is the application name used for directories and display.
const appName = "onlyone"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the optional TOML config file, set by the persistent
	// --config flag.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "onlyone",
		Short:        "OnlyOne automates one-of-one apparel drops",
		Long:         `OnlyOne takes finished artworks and turns each into a limited-edition apparel product: curved title rasters, print-ready compositions for every garment color, QA scoring, public uploads, and marketplace publication.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "TOML config file (defaults apply when omitted)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.titlesCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configured TOML file on top of the defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newLedgerStore opens the configured tracking backend. Mongo when a URI is
// configured, the CSV file otherwise.
func newLedgerStore(ctx context.Context, cfg *config.Config) (ledger.Store, error) {
	if cfg.Ledger.MongoURI != "" {
		return ledger.NewMongoStore(ctx, ledger.MongoConfig{
			URI:      cfg.Ledger.MongoURI,
			Database: cfg.Ledger.MongoDB,
		})
	}
	return ledger.NewCSVStore(cfg.Ledger.CSVPath)
}

// newCache opens the upload memo cache: Redis when an address is
// configured, the XDG file cache otherwise, or a null cache when disabled.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/onlyone/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
