package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// FileCache stores each entry as a JSON file carrying its expiry.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeCache, err, "create cache dir")
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kerrors.Wrap(kerrors.ErrCodeCache, err, "read entry")
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entries count as a miss.
		_ = os.Remove(path)
		return nil, false, nil
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeCache, err, "encode entry")
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeCache, err, "create entry dir")
	}
	if err := os.WriteFile(path, entryData, 0o644); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeCache, err, "write entry")
	}
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return kerrors.Wrap(kerrors.ErrCodeCache, err, "delete entry")
	}
	return nil
}

// Clear removes every entry, keeping the directory itself.
func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeCache, err, "read cache dir")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeCache, err, "remove %s", e.Name())
		}
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// path shards entries into subdirectories by the first two hex characters
// of the hashed key.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
