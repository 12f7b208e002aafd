// Package environment implements the treescript variable-binding stack.
//
// Scoping is deliberately NOT plain lexical scoping: Set mutates the
// nearest enclosing scope that already binds the name, but when no scope
// binds it yet, the new binding is created in the OUTERMOST scope rather
// than the current one. This makes an unqualified assignment inside a
// nested block (if/while/for/fn body) visible program-wide unless an
// enclosing scope already shadows the name.
package environment

import "github.com/dogukanakkaya/treescript/value"

// Environment is a stack of scopes, innermost last.
type Environment struct {
	scopes []map[string]value.Value
}

// New returns an Environment with a single, empty outermost scope.
func New() *Environment {
	return &Environment{scopes: []map[string]value.Value{{}}}
}

// Fork returns a new Environment sharing the same underlying scopes (so
// mutations to an outer scope remain visible both ways) but with an
// independent scope stack, so pushes/pops on the fork do not affect the
// original. Used to give each function call its own call frame over a
// shared closure.
func (e *Environment) Fork() *Environment {
	scopes := make([]map[string]value.Value, len(e.scopes))
	copy(scopes, e.scopes)
	return &Environment{scopes: scopes}
}

// Push opens a new, innermost scope.
func (e *Environment) Push() {
	e.scopes = append(e.scopes, map[string]value.Value{})
}

// Pop discards the innermost scope.
func (e *Environment) Pop() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Get looks up name from the innermost scope outward.
func (e *Environment) Get(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return value.None(), false
}

// Contains reports whether name is bound in any scope.
func (e *Environment) Contains(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Declare binds name in the innermost (current) scope, shadowing any outer
// binding of the same name. Used for fn parameters, for-in loop variables,
// and @load input bindings.
func (e *Environment) Declare(name string, v value.Value) {
	e.scopes[len(e.scopes)-1][name] = v
}

// Set assigns v to name's nearest existing binding. If no scope currently
// binds name, the binding is created in the outermost scope.
func (e *Environment) Set(name string, v value.Value) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			e.scopes[i][name] = v
			return
		}
	}
	e.scopes[0][name] = v
}
