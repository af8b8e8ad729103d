package core

import (
	"sort"
	"time"
)

// Size describes the dimensions of a regular grid.
type Size struct {
	W int
	H int
}

// Crawler is an incremental, resumable procedure that visits every element of
// a mesh or grid once per pass.
type Crawler interface {
	// Step performs exactly one element visit and reports whether that visit
	// completed a pass.
	Step() bool
	// Walk repeats Step until the budget is spent or a pass completes, and
	// reports whether a pass completed.
	Walk(budget time.Duration) bool
}

// Registry maps names to constructors. It is populated from package init
// functions and read afterwards, so it carries no locking.
type Registry[F any] struct {
	entries map[string]F
}

// NewRegistry returns an empty registry.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{entries: map[string]F{}}
}

// Register adds a constructor under the provided name. Empty names are ignored.
func (r *Registry[F]) Register(name string, f F) {
	if name == "" {
		return
	}
	r.entries[name] = f
}

// Lookup returns the constructor registered under name.
func (r *Registry[F]) Lookup(name string) (F, bool) {
	f, ok := r.entries[name]
	return f, ok
}

// Names lists the registered names in sorted order.
func (r *Registry[F]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
