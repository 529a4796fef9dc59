package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog maps the factory keys used in manifests to Go constructors.
// Manifests can only name constructors; the code behind them has to be
// compiled in and added here.
//
//	catalog := loader.NewCatalog()
//	catalog.Add("geometry.circle", geometry.NewCircle)
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]any)}
}

// Add stores constructor under key. Keys are unique.
func (c *Catalog) Add(key string, constructor any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("loader: catalog key cannot be empty")
	}
	if constructor == nil {
		return fmt.Errorf("loader: catalog entry %q has no constructor", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return fmt.Errorf("loader: catalog entry %q already exists", key)
	}
	c.entries[key] = constructor
	return nil
}

// Lookup returns the constructor stored under key.
func (c *Catalog) Lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctor, ok := c.entries[key]
	return ctor, ok
}

// Keys returns every key, sorted.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
