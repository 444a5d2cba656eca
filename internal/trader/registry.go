package trader

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps algorithm names to factories. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a name. Empty names, nil factories, and
// duplicate names are rejected.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("algorithm name is empty")
	}
	if factory == nil {
		return fmt.Errorf("algorithm %q has a nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("algorithm %q registered twice", name)
	}
	r.factories[name] = factory
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered algorithm names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
