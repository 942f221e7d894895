// Package cache implements the two-tier persistent cache described by
// C1: a small-tier map serialized as one blob (route costs, region
// polygons, other generic key/value pairs) and a large-tier
// one-file-per-key store (route shapes) living in a sibling "<prefix>_files"
// directory, grounded on the original implementation's caching package
// (pickle-backed dict plus get_file/set_file).
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/util"
)

// Cache is the two-tier store. The small tier is an in-memory map
// guarded by a mutex and flushed to a single file on Save; the large
// tier writes one file per key directly, since distinct keys never
// collide on the same path and concurrent writers therefore need no
// coordination (spec.md §5's concurrency model).
type Cache struct {
	path    string
	largeDir string

	mu    sync.Mutex
	small map[string]json.RawMessage
}

// New constructs a Cache rooted at path; the large tier lives at
// "<path>_files".
func New(path string) *Cache {
	return &Cache{
		path:     path,
		largeDir: path + "_files",
		small:    make(map[string]json.RawMessage),
	}
}

// Load reads the small-tier blob from disk, if present, and ensures
// the large-tier directory exists. A missing blob is not an error —
// a fresh cache simply starts empty, matching the original
// implementation's load() which tolerates a missing file.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, err := os.ReadFile(c.path); err == nil {
		if err := json.Unmarshal(data, &c.small); err != nil {
			return errors.Wrapf(err, "decode cache blob %s", c.path)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "read cache blob %s", c.path)
	}

	if err := os.MkdirAll(c.largeDir, 0o755); err != nil {
		return errors.Wrapf(err, "create large-tier directory %s", c.largeDir)
	}

	return nil
}

// Save flushes the small tier to disk as a single blob. Per spec.md
// §5, Save is called only by the main thread, never by matrix workers,
// so no additional locking is required beyond protecting the in-memory
// map from concurrent mutation during marshal.
func (c *Cache) Save() error {
	c.mu.Lock()
	data, err := json.Marshal(c.small)
	c.mu.Unlock()

	if err != nil {
		return errors.Wrap(err, "encode cache blob")
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write cache blob %s", c.path)
	}

	return nil
}

// GetGeneric retrieves a raw small-tier value by key, unmarshalling it
// into out. It reports whether the key was present.
func (c *Cache) GetGeneric(key string, out any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.small[key]
	c.mu.Unlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "decode cache value for key %q", key)
	}

	return true, nil
}

// SetGeneric stores value under key in the small tier.
func (c *Cache) SetGeneric(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode cache value for key %q", key)
	}

	c.mu.Lock()
	c.small[key] = data
	c.mu.Unlock()

	return nil
}

// IterateByPrefix calls fn for every small-tier key that begins with
// prefix, in lexicographic key order, matching the original
// implementation's get_all prefix scan used for relaxed-route reuse
// (spec.md §4.4 step 2).
func (c *Cache) IterateByPrefix(prefix string, fn func(key string, raw json.RawMessage) error) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.small))
	for k := range c.small {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		values[i] = c.small[k]
	}
	c.mu.Unlock()

	for i, k := range keys {
		if err := fn(k, values[i]); err != nil {
			return err
		}
	}

	return nil
}

// GetLarge reads a large-tier value by key, unmarshalling it into out.
// It reports whether the key was present.
func (c *Cache) GetLarge(key string, out any) (bool, error) {
	data, err := os.ReadFile(c.largeFile(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, errors.Wrapf(err, "read large-tier file for key %q", key)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Wrapf(err, "decode large-tier value for key %q", key)
	}

	return true, nil
}

// SetLarge writes value to a dedicated large-tier file for key.
// Distinct keys write distinct files, so concurrent calls for
// different keys are safe without external locking.
func (c *Cache) SetLarge(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode large-tier value for key %q", key)
	}

	if err := os.WriteFile(c.largeFile(key), data, 0o644); err != nil {
		return errors.Wrapf(err, "write large-tier file for key %q", key)
	}

	return nil
}

func (c *Cache) largeFile(key string) string {
	return filepath.Join(c.largeDir, util.HashKey(key))
}
