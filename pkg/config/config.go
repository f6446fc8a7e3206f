// Package config loads kintree settings from a TOML file, a .env file and
// the environment, in that order of increasing precedence.
//
// A missing file at the default location is not an error; every field has
// a usable default. An example file:
//
//	[layout]
//	card_width = 180
//	vertical_gap = 60
//
//	[store]
//	dsn = "sqlite:family.db"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/route"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

const (
	defaultStoreDSN = "file:kintree.json"
	defaultCacheTTL = "168h"
	defaultRedis    = "localhost:6379"
)

// Config is the full set of user settings.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Route  RouteConfig    `toml:"route"`
	Store  StoreConfig    `toml:"store"`
	Cache  CacheConfig    `toml:"cache"`
}

// RouteConfig holds line-routing settings. Card size always follows the
// layout section.
type RouteConfig struct {
	AlignTolerance float64 `toml:"align_tolerance"`
	ArrowSize      float64 `toml:"arrow_size"`
}

type StoreConfig struct {
	DSN string `toml:"dsn"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Route: RouteConfig{
			AlignTolerance: route.DefaultAlignTolerance,
			ArrowSize:      route.DefaultArrowSize,
		},
		Store: StoreConfig{DSN: defaultStoreDSN},
		Cache: CacheConfig{
			Backend:   CacheFile,
			Dir:       defaultCacheDir(),
			RedisAddr: defaultRedis,
			TTL:       defaultCacheTTL,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/kintree/config.toml, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kintree", "config.toml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "kintree")
	}
	return filepath.Join(dir, "kintree")
}

// Load reads the file at path over the defaults and then applies
// environment overrides. An empty path means DefaultPath, which may be
// absent. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			switch {
			case errors.Is(err, fs.ErrNotExist) && !explicit:
			case errors.Is(err, fs.ErrNotExist):
				return Config{}, kerrors.Wrap(kerrors.ErrCodeNotFound, err, "config file %s", path)
			default:
				return Config{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "load env files")
	}
	return nil
}

// Validate rejects settings that cannot produce a layout or open a cache.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "layout")
	}
	if c.Route.AlignTolerance < 0 || c.Route.ArrowSize < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "route tolerances must not be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "unknown cache backend %q (must be none, file, or redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses the cache ttl. An empty value means no expiry.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, kerrors.New(kerrors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// RouteOptions combines the route section with the layout card size.
func (c Config) RouteOptions() route.Options {
	o := route.OptionsFrom(c.Layout)
	o.AlignTolerance = c.Route.AlignTolerance
	o.ArrowSize = c.Route.ArrowSize
	return o
}
