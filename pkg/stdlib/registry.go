// Package stdlib provides the builtin functions placed in a program's
// global environment.
package stdlib

import (
	"sort"

	"github.com/shvrma/lualike/pkg/evaluator"
	"github.com/shvrma/lualike/pkg/value"
)

// Fn represents a builtin function.
type Fn struct {
	Name    string
	Execute value.BuiltinFunc
}

// Registry holds registered builtin functions.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Register adds a builtin to the registry, replacing any of the same name.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a builtin by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// All returns all registered builtins.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install binds every registered builtin as a global.
func (r *Registry) Install(globals *evaluator.Globals) {
	for name, fn := range r.fns {
		globals.Set(name, value.NewBuiltin(name, fn.Execute))
	}
}
