package dispatcher

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/cubicfold/internal/dispatcher/handler"
)

// Router sends "namespace.action" names to the handler owning the
// namespace. Names without a dot never route.
type Router struct {
	mu    sync.RWMutex
	owner map[string]handler.NamespaceHandler
}

// NewRouter returns a router without namespaces.
func NewRouter() *Router {
	return &Router{owner: make(map[string]handler.NamespaceHandler)}
}

// RegisterNamespace makes h the owner of namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner[namespace] = h
}

// UnregisterNamespace drops the owner of namespace.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owner, namespace)
}

// lookup returns the owner of the action's namespace if it accepts the
// action.
func (r *Router) lookup(actionName string) handler.NamespaceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := r.owner[Namespace(actionName)]
	if h == nil || !h.CanHandle(actionName) {
		return nil
	}
	return h
}

// Route returns the handler for actionName, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	if h := r.lookup(actionName); h != nil {
		return handler.Bind(h)
	}
	return nil
}

// CanRoute reports whether Route would find a handler.
func (r *Router) CanRoute(actionName string) bool {
	return r.lookup(actionName) != nil
}

// Namespaces returns the registered namespaces, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.owner))
}

// Namespace returns the part of an action name before its first dot, or ""
// when there is no dot.
func Namespace(actionName string) string {
	ns, _, found := strings.Cut(actionName, ".")
	if !found {
		return ""
	}
	return ns
}
