package turtlescript

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Environment is the flat, program-wide variable table of one run.
// Every block reads and writes the same table.
type Environment struct {
	mu   sync.RWMutex
	vars map[string]float64
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		vars: make(map[string]float64),
	}
}

// NewEnvironmentFrom creates an environment seeded with the given values
func NewEnvironmentFrom(initial map[string]float64) *Environment {
	env := NewEnvironment()
	for name, value := range initial {
		env.vars[strings.ToLower(name)] = value
	}
	return env
}

// Declare sets a variable, overwriting any previous value
func (e *Environment) Declare(name string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[strings.ToLower(name)] = value
}

// Assign updates an existing variable
func (e *Environment) Assign(name string, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := e.vars[key]; !exists {
		return fmt.Errorf("cannot reassign undeclared variable %q", key)
	}
	e.vars[key] = value
	return nil
}

// Get looks up a variable
func (e *Environment) Get(name string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[strings.ToLower(name)]
	return v, ok
}

// Snapshot returns a copy of every variable
func (e *Environment) Snapshot() map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]float64, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// Names returns the declared names in sorted order
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns a string representation for debugging
func (e *Environment) String() string {
	var b strings.Builder
	b.WriteString("Environment(")
	for i, name := range e.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := e.Get(name)
		fmt.Fprintf(&b, "%s=%g", name, v)
	}
	b.WriteString(")")
	return b.String()
}
