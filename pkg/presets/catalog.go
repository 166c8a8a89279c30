package presets

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is a thread-safe set of presets keyed by name.
type Catalog struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewCatalog creates a catalog holding ps.
func NewCatalog(ps ...Preset) *Catalog {
	c := &Catalog{presets: make(map[string]Preset)}
	for _, p := range ps {
		c.Register(p)
	}
	return c
}

// Default returns a catalog with the built-in presets.
func Default() *Catalog {
	return NewCatalog(Tree{}, Lots{}, City{}, District{})
}

// Register adds or replaces a preset.
func (c *Catalog) Register(p Preset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets[p.Name()] = p
}

// Get returns the preset called name.
func (c *Catalog) Get(name string) (Preset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// List returns every preset sorted by name.
func (c *Catalog) List() []Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
