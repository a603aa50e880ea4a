package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds resolved schemas by name
type Registry struct {
	schemas map[string]*Schema
	mu      sync.RWMutex
}

// NewRegistry creates a new schema registry
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
	}
}

// Register adds a resolved schema to the registry
func (r *Registry) Register(s *Schema) error {
	if !s.Resolved() {
		return fmt.Errorf("%w: schema must be created with Define or Extend", ErrUnresolvedParent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.name]; exists {
		return fmt.Errorf("schema %s is already registered", s.name)
	}
	r.schemas[s.name] = s
	return nil
}

// Get retrieves a schema by name
func (r *Registry) Get(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.schemas[name]
	return s, exists
}

// MustGet retrieves a schema by name or returns an error listing the known names
func (r *Registry) MustGet(name string) (*Schema, error) {
	if s, ok := r.Get(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("schema %s is not registered (known: %s)", name, strings.Join(r.List(), ", "))
}

// All returns a copy of all registered schemas
func (r *Registry) All() map[string]*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Schema, len(r.schemas))
	for k, v := range r.schemas {
		result[k] = v
	}
	return result
}

// List returns the sorted names of all registered schemas
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered schemas
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

// Exists checks if a schema is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[name]
	return exists
}

// Clear removes all registered schemas (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = make(map[string]*Schema)
}
