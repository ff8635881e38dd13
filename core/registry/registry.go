// Package registry manages named model types and conflict detection.
// It ensures no two distinct types claim the same name across a type's
// ancestry and nested references, and provides lookup for loaders and the
// CLI.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/artpar/modelkit/core/model"
	"github.com/rs/zerolog"
)

// Registry manages registered model types.
type Registry struct {
	mu sync.RWMutex

	// types by name
	types map[string]*model.Type

	logger   zerolog.Logger
	observer model.Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver attaches an observer to every type built by Define and
// Extend.
func WithObserver(o model.Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// New creates a new registry.
func New(logger zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		types:  make(map[string]*model.Type),
		logger: logger.With().Str("component", "registry").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register registers a type under its name.
// Returns an error if the name is taken or a type it depends on conflicts
// with a registered type of the same name.
func (r *Registry) Register(t *model.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(t)
}

func (r *Registry) register(t *model.Type) error {
	// Check for duplicate type name
	if _, exists := r.types[t.Name()]; exists {
		return fmt.Errorf("type %q already registered", t.Name())
	}

	if conflicts := r.detectConflicts(t); len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	r.types[t.Name()] = t

	evt := r.logger.Debug().Str("type", t.Name()).Strs("fields", t.Fields())
	if p := t.Parent(); p != nil {
		evt = evt.Str("extends", p.Name())
	}
	evt.Msg("type registered")
	return nil
}

// Define composes a root type and registers it.
func (r *Registry) Define(name string, decls ...model.Decl) (*model.Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return nil, fmt.Errorf("type %q already registered", name)
	}

	t := model.Define(name, r.decls(decls)...)
	if err := r.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Extend composes a subtype of the registered type parent and registers it.
func (r *Registry) Extend(parent, name string, decls ...model.Decl) (*model.Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	base, ok := r.types[parent]
	if !ok {
		return nil, fmt.Errorf("parent type %q not registered", parent)
	}
	if _, exists := r.types[name]; exists {
		return nil, fmt.Errorf("type %q already registered", name)
	}

	t := base.Extend(name, r.decls(decls)...)
	if err := r.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// decls puts the registry observer first so an explicit Observe wins.
func (r *Registry) decls(decls []model.Decl) []model.Decl {
	if r.observer == nil {
		return decls
	}
	return append([]model.Decl{model.Observe(r.observer)}, decls...)
}

// Unregister removes a type from the registry.
// A type that other registered types depend on cannot be removed.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.types[name]
	if !exists {
		return fmt.Errorf("type %q not registered", name)
	}

	var dependents []string
	for other, ot := range r.types {
		if other == name {
			continue
		}
		for _, dep := range Dependencies(ot) {
			if dep == t {
				dependents = append(dependents, other)
				break
			}
		}
	}
	if len(dependents) > 0 {
		sort.Strings(dependents)
		return fmt.Errorf("type %q is used by %s", name, strings.Join(dependents, ", "))
	}

	delete(r.types, name)
	r.logger.Debug().Str("type", name).Msg("type unregistered")
	return nil
}

// Get returns a registered type by name.
func (r *Registry) Get(name string) (*model.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// MustGet returns a registered type or panics.
func (r *Registry) MustGet(name string) *model.Type {
	t, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: type %q not registered", name))
	}
	return t
}

// List returns all registered types.
func (r *Registry) List() []*model.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]*model.Type, 0, len(r.types))
	for _, t := range r.types {
		types = append(types, t)
	}

	// Sort by name for consistent ordering
	sort.Slice(types, func(i, j int) bool {
		return types[i].Name() < types[j].Name()
	})

	return types
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	types := r.List()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return names
}

// All returns all registered types as a map keyed by name.
func (r *Registry) All() map[string]*model.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*model.Type, len(r.types))
	for name, t := range r.types {
		result[name] = t
	}
	return result
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Dependencies returns the ancestors and nested field types reachable from
// t, excluding t itself, in discovery order.
func Dependencies(t *model.Type) []*model.Type {
	var out []*model.Type
	seen := map[*model.Type]bool{t: true}

	var visit func(*model.Type)
	visit = func(cur *model.Type) {
		var next []*model.Type
		if p := cur.Parent(); p != nil {
			next = append(next, p)
		}
		for _, name := range cur.Fields() {
			if nt, ok := cur.NestedType(name); ok {
				next = append(next, nt)
			}
		}
		for _, dep := range next {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			visit(dep)
		}
	}
	visit(t)

	return out
}

// detectConflicts checks the dependencies of t against registered names
// without modifying the registry.
func (r *Registry) detectConflicts(t *model.Type) []Conflict {
	var conflicts []Conflict

	for _, dep := range Dependencies(t) {
		if existing, ok := r.types[dep.Name()]; ok && existing != dep {
			conflicts = append(conflicts, Conflict{Name: dep.Name(), Registered: existing, Incoming: dep})
		}
		if dep.Name() == t.Name() {
			conflicts = append(conflicts, Conflict{Name: dep.Name(), Registered: t, Incoming: dep})
		}
	}

	return conflicts
}

// Conflict is one name claimed by two distinct types.
type Conflict struct {
	Name       string
	Registered *model.Type
	Incoming   *model.Type
}

func (c Conflict) Error() string {
	return fmt.Sprintf("type name %q is claimed by two distinct types", c.Name)
}

// ConflictError represents one or more type name conflicts.
type ConflictError struct {
	Conflicts []Conflict
}

// Error returns the conflict error message.
func (e *ConflictError) Error() string {
	var msgs []string
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("type conflicts detected:\n  - %s", strings.Join(msgs, "\n  - "))
}

// HasConflicts returns true if there are any conflicts.
func (e *ConflictError) HasConflicts() bool {
	return len(e.Conflicts) > 0
}
