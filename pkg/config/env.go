package config

import (
	"errors"
	"os"
	"strconv"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvStoreDSN       = "KINTREE_STORE_DSN"
	EnvCacheBackend   = "KINTREE_CACHE_BACKEND"
	EnvCacheDir       = "KINTREE_CACHE_DIR"
	EnvCacheTTL       = "KINTREE_CACHE_TTL"
	EnvRedisAddr      = "KINTREE_REDIS_ADDR"
	EnvRedisPassword  = "KINTREE_REDIS_PASSWORD"
	EnvRedisDB        = "KINTREE_REDIS_DB"
	EnvCardWidth      = "KINTREE_CARD_WIDTH"
	EnvCardHeight     = "KINTREE_CARD_HEIGHT"
	EnvHorizontalGap  = "KINTREE_HORIZONTAL_GAP"
	EnvVerticalGap    = "KINTREE_VERTICAL_GAP"
	EnvAlignTolerance = "KINTREE_ALIGN_TOLERANCE"
)

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "%s=%q", key, s)
	}
	return v, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultValue, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "%s=%q", key, s)
	}
	return v, nil
}

func applyEnv(c *Config) error {
	c.Store.DSN = getEnvOrDefault(EnvStoreDSN, c.Store.DSN)
	c.Cache.Backend = getEnvOrDefault(EnvCacheBackend, c.Cache.Backend)
	c.Cache.Dir = getEnvOrDefault(EnvCacheDir, c.Cache.Dir)
	c.Cache.TTL = getEnvOrDefault(EnvCacheTTL, c.Cache.TTL)
	c.Cache.RedisAddr = getEnvOrDefault(EnvRedisAddr, c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnvOrDefault(EnvRedisPassword, c.Cache.RedisPassword)

	var errs []error
	var err error
	c.Cache.RedisDB, err = getEnvIntOrDefault(EnvRedisDB, c.Cache.RedisDB)
	errs = append(errs, err)
	for key, field := range map[string]*float64{
		EnvCardWidth:      &c.Layout.CardWidth,
		EnvCardHeight:     &c.Layout.CardHeight,
		EnvHorizontalGap:  &c.Layout.HorizontalGap,
		EnvVerticalGap:    &c.Layout.VerticalGap,
		EnvAlignTolerance: &c.Route.AlignTolerance,
	} {
		*field, err = getEnvFloatOrDefault(key, *field)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
