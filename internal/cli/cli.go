// Package cli implements the kintree command-line interface.
//
// Commands read a family snapshot from a store (a JSON file, SQLite,
// MongoDB or memory), lay it out, and either write positions back or
// render the tree. Settings come from the config file and environment;
// see package config.
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers logging observability hooks for the pipeline, cache and store.
// With --metrics-file the hooks feed Prometheus collectors instead, and
// the collected values are written in text format when the command ends.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kintree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose     bool
	configPath  string
	storeDSN    string
	metricsFile string
	metrics     *observability.Metrics
	cfg         config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kintree lays out and renders family trees",
		Long:         `Kintree is a CLI tool for laying out family trees: it places every member on a generation band, keeps couples side by side, centers parents over their children, and renders the result as SVG or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if c.metricsFile != "" {
				c.metrics = observability.NewMetrics(appName)
				c.metrics.Register()
			}
			return c.loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.metrics == nil {
				return nil
			}
			if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
				return err
			}
			c.Logger.Debug("wrote metrics", "file", c.metricsFile)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kintree/config.toml)")
	root.PersistentFlags().StringVar(&c.storeDSN, "store", "", "store DSN: file:<path.json>, sqlite:<path.db>, mongodb://..., memory:")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")
	_ = root.RegisterFlagCompletionFunc("store", completeStore)

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.routesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storeDSN != "" {
		cfg.Store.DSN = c.storeDSN
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "store", cfg.Store.DSN, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// session bundles an open store with a runner over it.
type session struct {
	store  store.Store
	runner *pipeline.Runner
}

func (s *session) Close() error {
	if err := s.runner.Cache.Close(); err != nil {
		s.store.Close()
		return err
	}
	return s.store.Close()
}

// open connects to the configured store and cache.
func (c *CLI) open(ctx context.Context, noCache bool) (*session, error) {
	st, err := store.Open(ctx, c.cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	ch, keyer := c.newCache(ctx, noCache)

	r := pipeline.NewRunner(st, st, ch, keyer, c.Logger)
	if ttl, err := c.cfg.CacheTTL(); err == nil {
		r.LayoutTTL = ttl
	}
	return &session{store: st, runner: r}, nil
}

// newCache opens the configured cache. Failures fall back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheFile:
		fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable", "dir", c.cfg.Cache.Dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
			Prefix:   cache.DefaultRedisPrefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable", "addr", c.cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.DefaultRedisPrefix)
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions derives pipeline options from the loaded config.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Layout: c.cfg.Layout,
		Route:  c.cfg.RouteOptions(),
	}
}

// registerLogHooks routes observability events to the logger.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetStoreHooks(h)
}
