// Package cache remembers which files already went through a rule set, so a
// repeated "papagaio fix" can skip files that have not changed since their last
// rewrite.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "papagaio_cache.gob"

type Entry struct {
	// Hash is the content hash of the file as it was left by the rewrite.
	Hash string
	// Digest identifies the rule set that produced it.
	Digest    string
	CreatedAt time.Time
}

// Cache is a path-keyed store persisted as a single gob file. It is safe for
// concurrent use.
type Cache struct {
	dir     string
	maxAge  time.Duration
	mutex   sync.RWMutex
	entries map[string]Entry
	dirty   bool
}

// New opens the cache stored in dir, creating the directory when needed.
// Entries older than maxAge are treated as missing; zero keeps them forever.
func New(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:     dir,
		maxAge:  maxAge,
		entries: make(map[string]Entry),
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path() string {
	return filepath.Join(c.dir, fileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

// Save writes the cache to disk if anything changed since the last save.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(c.dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(c.entries); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path()); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.dirty = false
	return nil
}

// Fresh reports whether content at path is exactly what the rule set with
// the given digest left behind.
func (c *Cache) Fresh(path string, content []byte, digest string) bool {
	c.mutex.RLock()
	entry, ok := c.entries[path]
	c.mutex.RUnlock()

	if !ok || entry.Digest != digest {
		return false
	}
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return false
	}
	return entry.Hash == HashContent(content)
}

// Record stores the final content of path after a run with digest.
func (c *Cache) Record(path string, content []byte, digest string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[path] = Entry{
		Hash:      HashContent(content),
		Digest:    digest,
		CreatedAt: time.Now(),
	}
	c.dirty = true
}

func (c *Cache) Lookup(path string) (Entry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[path]
	return entry, ok
}

func (c *Cache) Forget(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.dirty = true
	}
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	c.dirty = true
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// HashContent returns the hex encoded sha256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
