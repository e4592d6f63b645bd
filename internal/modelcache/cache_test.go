package modelcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/foxseedlab/kakitori/internal/backend"
)

type fakeModel struct {
	name string
}

func (m *fakeModel) Transcribe(ctx context.Context, audioPath string, opts backend.Options) (*backend.Output, error) {
	return &backend.Output{}, nil
}

func (m *fakeModel) Close() error { return nil }

type fakeBackend struct {
	loads   atomic.Int64
	failFor string
}

func (b *fakeBackend) LoadModel(ctx context.Context, name string) (backend.Model, error) {
	b.loads.Add(1)
	if name == b.failFor {
		return nil, errors.New("no such model")
	}
	return &fakeModel{name: name}, nil
}

func TestResolve_SecondCallIsCacheHit(t *testing.T) {
	b := &fakeBackend{}
	c := New(b)

	first, err := c.Resolve(context.Background(), "turbo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := c.Resolve(context.Background(), "turbo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Fatal("expected the cached handle on the second call")
	}
	if got := b.loads.Load(); got != 1 {
		t.Fatalf("expected exactly one load, got %d", got)
	}
	if c.CurrentModel() != "turbo" {
		t.Fatalf("unexpected current model: %s", c.CurrentModel())
	}
}

func TestResolve_SwitchEvictsPrevious(t *testing.T) {
	b := &fakeBackend{}
	c := New(b)

	if _, err := c.Resolve(context.Background(), "tiny"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := c.Resolve(context.Background(), "base"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.CurrentModel() != "base" {
		t.Fatalf("expected base to be current, got %s", c.CurrentModel())
	}

	// Coming back to the first model is a miss again in the single-slot cache.
	if _, err := c.Resolve(context.Background(), "tiny"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := b.loads.Load(); got != 3 {
		t.Fatalf("expected 3 loads, got %d", got)
	}
}

func TestResolve_LoadFailureKeepsPriorEntry(t *testing.T) {
	b := &fakeBackend{failFor: "broken"}
	c := New(b)

	if _, err := c.Resolve(context.Background(), "turbo"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := c.Resolve(context.Background(), "broken"); err == nil {
		t.Fatal("expected load error")
	}
	if c.CurrentModel() != "turbo" {
		t.Fatalf("expected prior entry to survive a failed load, got %s", c.CurrentModel())
	}
	if !c.Loaded() {
		t.Fatal("expected a model to still be resident")
	}
}

func TestResolve_LoadFailureOnEmptyCache(t *testing.T) {
	b := &fakeBackend{failFor: "broken"}
	c := New(b)

	if _, err := c.Resolve(context.Background(), "broken"); err == nil {
		t.Fatal("expected load error")
	}
	if c.Loaded() {
		t.Fatal("expected cache to stay empty")
	}
	if c.CurrentModel() != "" {
		t.Fatalf("expected no current model, got %s", c.CurrentModel())
	}
}

func TestResolve_ConcurrentMixedModels(t *testing.T) {
	b := &fakeBackend{}
	c := New(b)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		name := "a"
		if i%2 == 1 {
			name = "b"
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			model, err := c.Resolve(context.Background(), name)
			if err != nil {
				t.Errorf("resolve %s: %v", name, err)
				return
			}
			if fm := model.(*fakeModel); fm.name != name {
				t.Errorf("resolve %s returned handle for %s", name, fm.name)
			}
		}(name)
	}
	wg.Wait()

	// Whatever won last, a follow-up resolve must agree with itself.
	model, err := c.Resolve(context.Background(), "a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fm := model.(*fakeModel); fm.name != "a" {
		t.Fatalf("expected handle for a, got %s", fm.name)
	}
	if c.CurrentModel() != "a" {
		t.Fatalf("expected a to be current, got %s", c.CurrentModel())
	}
}
