package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rebeliceyang/lazysheet/internal/logger"
)

// LoaderFunc parses a file into a dataset
type LoaderFunc func(path, sheet string) (*Dataset, error)

type cacheKey struct {
	path    string
	sheet   string
	size    int64
	modTime time.Time
}

// Cache memoizes loaded datasets keyed by file identity: absolute path,
// sheet, size and modification time. A changed file is reloaded.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Dataset
	loads   int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*Dataset)}
}

// Load returns the cached dataset for path or calls load and stores the result
func (c *Cache) Load(path, sheet string, load LoaderFunc) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	key := cacheKey{path: abs, sheet: sheet, size: info.Size(), modTime: info.ModTime()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.entries[key]; ok {
		logger.Debug("dataset cache hit", "path", abs)
		return ds, nil
	}

	ds, err := load(abs, sheet)
	if err != nil {
		return nil, err
	}

	for k := range c.entries {
		if k.path == abs && k.sheet == sheet {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ds
	c.loads++
	return ds, nil
}

// Loads returns how many times a loader actually ran
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
