// Package cli implements the barpack command-line interface.
//
// # Commands
//
//   - pack: fill a bar with the circle-packing engine
//   - grid: lay circles out in deterministic rows
//   - stats: measure how stable a packing parameter set is across seeds
//   - serve: serve generated bars over HTTP
//   - cache: manage the layout cache
//   - config: write or show the TOML preset
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/buildinfo"
	"github.com/matzehuels/barpack/pkg/cache"
	"github.com/matzehuels/barpack/pkg/observability"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "barpack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config Config

	configPath string
	cacheFlags cacheFlags
}

// cacheFlags are the persistent cache selection flags.
type cacheFlags struct {
	backend   string
	dir       string
	redisAddr string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level == log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "barpack fills decorative bars with packed circles",
		Long:         `barpack generates circle textures for thin decorative bars: a multi-phase stochastic circle packer and a deterministic grid packer, rendered to SVG, PNG, PDF, DXF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "preset file (default: $XDG_CONFIG_HOME/barpack/config.toml)")
	pf.StringVar(&c.cacheFlags.backend, "cache", "", "cache backend: file (default), memory, redis, none")
	pf.StringVar(&c.cacheFlags.dir, "cache-dir", "", "directory for the file cache")
	pf.StringVar(&c.cacheFlags.redisAddr, "redis-addr", "", "redis address for the redis cache")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the preset file and applies persistent cache flags.
func (c *CLI) loadConfig() error {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
	}

	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
		c.Config = cfg
		c.Logger.Debug("loaded config", "path", path)
	case os.IsNotExist(err) && !explicit:
		c.Config = DefaultConfig()
	default:
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if c.cacheFlags.backend != "" {
		c.Config.Cache.Backend = c.cacheFlags.backend
	}
	if c.cacheFlags.dir != "" {
		c.Config.Cache.Dir = c.cacheFlags.dir
	}
	if c.cacheFlags.redisAddr != "" {
		c.Config.Cache.Redis.Addr = c.cacheFlags.redisAddr
	}
	return c.Config.Validate()
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case cache.BackendNone:
		return cache.NewNullCache(), nil
	case cache.BackendMemory:
		return cache.NewMemoryCache(cfg.MaxEntries), nil
	case cache.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/barpack/).
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

// configDir returns the preset directory (~/.config/barpack/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
