package chunking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Strategy turns a document into an ordered chunk sequence. Implementations
// are stateless with respect to document data, so one instance may process
// multiple documents concurrently.
type Strategy interface {
	Name() string
	Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error)
}

// Factory constructs a strategy instance.
type Factory func() Strategy

// Registry maps strategy names to factories. It has two phases: a write
// phase (Register, single caller) and a read phase after Freeze, during
// which lookups take no lock.
type Registry struct {
	mu        sync.Mutex
	frozen    atomic.Bool
	factories map[string]Factory
	fallback  string
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named strategy factory. It fails once the registry is
// frozen or when the name is already taken.
func (r *Registry) Register(name string, factory Factory) error {
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %q", types.ErrRegistryFrozen, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("strategy %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// SetFallback names the strategy returned for unknown lookups. Without a
// fallback, Get surfaces UnknownStrategyError instead.
func (r *Registry) SetFallback(name string) error {
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot set fallback %q", types.ErrRegistryFrozen, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; !exists {
		return &types.UnknownStrategyError{Name: name}
	}
	r.fallback = name
	return nil
}

// Freeze ends the registration phase. The map is never written after this,
// so concurrent Get calls read it without locking.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Get resolves a strategy by name. An unknown name resolves to the
// configured fallback (reporting usedFallback=true) or returns
// UnknownStrategyError when no fallback is set.
func (r *Registry) Get(name string) (s Strategy, usedFallback bool, err error) {
	if !r.frozen.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if factory, ok := r.factories[name]; ok {
		return factory(), false, nil
	}
	if r.fallback != "" {
		return r.factories[r.fallback](), true, nil
	}
	return nil, false, &types.UnknownStrategyError{Name: name}
}

// Names returns the registered strategy names.
func (r *Registry) Names() []string {
	if !r.frozen.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
