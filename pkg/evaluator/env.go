package evaluator

import (
	"github.com/shvrma/lualike/pkg/value"
)

// Globals is the program-wide binding table. A single Globals is shared by
// every block of a run; it is never copied.
type Globals struct {
	bindings map[string]value.Value
}

// NewGlobals creates an empty global table.
func NewGlobals() *Globals {
	return &Globals{bindings: make(map[string]value.Value)}
}

// Get looks up a global by name.
func (g *Globals) Get(name string) (value.Value, bool) {
	val, ok := g.bindings[name]
	return val, ok
}

// Set binds a global.
func (g *Globals) Set(name string, val value.Value) {
	g.bindings[name] = val
}

// Len returns the number of bound globals.
func (g *Globals) Len() int {
	return len(g.bindings)
}

// Env is the scope of one block instance: its own locals plus the shared
// globals. Locals are not inherited by nested blocks.
type Env struct {
	locals  map[string]value.Value
	globals *Globals
}

// NewEnv creates a block scope with no locals over globals. A nil globals
// gets a fresh empty table.
func NewEnv(globals *Globals) *Env {
	if globals == nil {
		globals = NewGlobals()
	}
	return &Env{
		locals:  make(map[string]value.Value),
		globals: globals,
	}
}

// Child creates a scope for a nested block: empty locals, same globals.
func (e *Env) Child() *Env {
	return NewEnv(e.globals)
}

// Globals returns the shared global table.
func (e *Env) Globals() *Globals {
	return e.globals
}

// Declare binds a local. It reports false, leaving the existing binding
// untouched, when the name is already local to this scope.
func (e *Env) Declare(name string, val value.Value) bool {
	if _, exists := e.locals[name]; exists {
		return false
	}
	e.locals[name] = val
	return true
}

// Assign writes the global table, even when a local of the same name exists.
func (e *Env) Assign(name string, val value.Value) {
	e.globals.Set(name, val)
}

// Lookup resolves a name against locals first, then globals.
func (e *Env) Lookup(name string) (value.Value, bool) {
	if val, ok := e.locals[name]; ok {
		return val, true
	}
	return e.globals.Get(name)
}
