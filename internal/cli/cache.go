package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	if c.cfg.Cache.Backend == config.CacheNone {
		printInfo("Caching is disabled")
		return nil
	}

	ch, _ := c.newCache(ctx, false)
	defer ch.Close()

	clearer, ok := ch.(cache.Clearer)
	if !ok {
		return fmt.Errorf("cache backend %s cannot be cleared", c.cfg.Cache.Backend)
	}
	if err := clearer.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared layout cache")
	printDetail("Location: %s", c.cacheLocation())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached layouts are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the
// file cache, an address for Redis.
func (c *CLI) cacheLocation() string {
	switch c.cfg.Cache.Backend {
	case config.CacheFile:
		return c.cfg.Cache.Dir
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (%s*)", c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB, cache.DefaultRedisPrefix)
	}
	return config.CacheNone
}
