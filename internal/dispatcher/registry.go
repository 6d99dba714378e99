package dispatcher

import (
	"maps"
	"slices"
	"sync"

	"github.com/dshills/cubicfold/internal/dispatcher/handler"
)

// Registry binds exact action names, such as "cubic-folds:fold-all", to
// handlers. A name has at most one handler; registering again replaces it.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]handler.Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]handler.Handler)}
}

// Register binds h to name and reports whether it replaced a handler.
func (r *Registry) Register(name string, h handler.Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.byName[name]
	r.byName[name] = h
	return replaced
}

// Unregister drops the handler bound to name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, name)
}

// Get returns the handler bound to name, or nil.
func (r *Registry) Get(name string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// List returns the bound names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}
