package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points the default config location at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Layout.CardWidth != 160 || cfg.Layout.VerticalGap != 80 {
		t.Errorf("layout defaults = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Store.DSN != "file:kintree.json" {
		t.Errorf("cache/store defaults = %+v %+v", cfg.Cache, cfg.Store)
	}
	if ttl, _ := cfg.CacheTTL(); ttl != 168*time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.toml", `
[layout]
card_width = 200
vertical_gap = 40

[route]
align_tolerance = 5

[store]
dsn = "sqlite:family.db"

[cache]
backend = "none"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.CardWidth != 200 || cfg.Layout.VerticalGap != 40 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	// Unset keys keep their defaults.
	if cfg.Layout.CardHeight != 80 || cfg.Layout.HorizontalGap != 40 {
		t.Errorf("layout defaults lost: %+v", cfg.Layout)
	}
	if cfg.Route.AlignTolerance != 5 || cfg.Route.ArrowSize != 10 {
		t.Errorf("route = %+v", cfg.Route)
	}
	if cfg.Store.DSN != "sqlite:family.db" || cfg.Cache.Backend != CacheNone {
		t.Errorf("store/cache = %+v %+v", cfg.Store, cfg.Cache)
	}

	ro := cfg.RouteOptions()
	if ro.CardWidth != 200 || ro.AlignTolerance != 5 {
		t.Errorf("RouteOptions = %+v", ro)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)

	t.Run("default path", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Layout.CardWidth != 160 {
			t.Errorf("expected defaults, got %+v", cfg.Layout)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !kerrors.Is(err, kerrors.ErrCodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})
}

func TestLoad_Malformed(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.toml", "[layout\ncard_width = ")
	_, err := Load(path)
	if !kerrors.Is(err, kerrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.toml", "[layout]\ncard_width = 200\n")
	t.Setenv(EnvCardWidth, "240")
	t.Setenv(EnvStoreDSN, "memory:")
	t.Setenv(EnvCacheBackend, "redis")
	t.Setenv(EnvRedisAddr, "cache:6380")
	t.Setenv(EnvRedisDB, "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.CardWidth != 240 {
		t.Errorf("card width = %v, want env value 240", cfg.Layout.CardWidth)
	}
	if cfg.Store.DSN != "memory:" {
		t.Errorf("dsn = %q", cfg.Store.DSN)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6380" || cfg.Cache.RedisDB != 3 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvCardHeight, "tall")
	_, err := Load("")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "KINTREE_STORE_DSN=sqlite:from-dotenv.db\n")
	t.Setenv(EnvStoreDSN, "")
	os.Unsetenv(EnvStoreDSN)

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvStoreDSN); got != "sqlite:from-dotenv.db" {
		t.Errorf("%s = %q", EnvStoreDSN, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero card width", func(c *Config) { c.Layout.CardWidth = 0 }, true},
		{"negative gap", func(c *Config) { c.Layout.HorizontalGap = -1 }, true},
		{"negative tolerance", func(c *Config) { c.Route.AlignTolerance = -1 }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }, true},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "soon" }, true},
		{"no ttl", func(c *Config) { c.Cache.TTL = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !kerrors.Is(err, kerrors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", kerrors.GetCode(err))
			}
		})
	}
}
