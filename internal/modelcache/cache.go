package modelcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/kakitori/internal/backend"
)

// Cache is a single-slot model cache. Loading a different model evicts the
// previous entry; a failed load keeps the previous entry intact. The mutex is
// held across the whole check-and-load so concurrent requests never observe a
// half-swapped handle or trigger redundant loads of the same model.
type Cache struct {
	backend backend.Backend

	mu    sync.Mutex
	name  string
	model backend.Model
}

func New(b backend.Backend) *Cache {
	return &Cache{backend: b}
}

// Resolve returns the loaded model for name, loading it first if the slot
// holds a different model or nothing at all.
func (c *Cache) Resolve(ctx context.Context, name string) (backend.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil && c.name == name {
		return c.model, nil
	}

	slog.Info("loading transcription model", "model", name, "evicting", c.name)
	model, err := c.backend.LoadModel(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", name, err)
	}
	// The evicted handle is dropped without Close: an in-flight transcription
	// may still be using it.
	c.name = name
	c.model = model
	slog.Info("transcription model loaded", "model", name)
	return model, nil
}

// CurrentModel returns the name of the loaded model, or "" when the slot is
// empty.
func (c *Cache) CurrentModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Loaded reports whether a model is resident.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model != nil
}
