package handlers

import (
	"fmt"
	"sort"
	"sync"

	"taskchat/internal/intent"
)

// Registry holds registered handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[intent.Operation]Handler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[intent.Operation]Handler),
	}
}

// Register adds a handler to the registry.
// Returns an error if its operation is already registered.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op := h.Operation()
	if _, exists := r.handlers[op]; exists {
		return fmt.Errorf("handler already registered: %s", op)
	}
	r.handlers[op] = h
	return nil
}

// Find looks up the handler for op.
func (r *Registry) Find(op intent.Operation) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[op]
	return h, ok
}

// Confirmer looks up the confirmed-execution path for op.
func (r *Registry) Confirmer(op intent.Operation) (Confirmer, bool) {
	h, ok := r.Find(op)
	if !ok {
		return nil, false
	}
	c, ok := h.(Confirmer)
	return c, ok
}

// Operations returns the registered operations sorted by name.
func (r *Registry) Operations() []intent.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]intent.Operation, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// DefaultRegistry is the global handler registry.
var DefaultRegistry = NewRegistry()

// Register adds a handler to the default registry.
func Register(h Handler) {
	if err := DefaultRegistry.Register(h); err != nil {
		panic(err)
	}
}
