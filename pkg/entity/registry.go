package entity

import "sync"

// Constructor builds a fresh entity value for one request. Entities are
// constructed per request so they can hold request state without any
// cross-request shared mutable state.
type Constructor func() any

// Registry maps menu names to entity constructors. A menu may exist purely
// programmatically: the flow registry treats a name as present when an
// entity is registered for it, even without a declarative definition.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register binds a constructor to a menu name. Registering the same name
// twice overwrites the previous constructor.
func (r *Registry) Register(menu string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[menu] = ctor
}

// Has reports whether an entity is registered for the menu name.
func (r *Registry) Has(menu string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[menu]
	return ok
}

// Bind constructs the entity for a menu and returns its capability set.
// Menus without an entity get an empty Hooks, which is safe to call through.
func (r *Registry) Bind(menu string) *Hooks {
	r.mu.RLock()
	ctor, ok := r.ctors[menu]
	r.mu.RUnlock()
	if !ok {
		return Bind(nil)
	}
	return Bind(ctor())
}
