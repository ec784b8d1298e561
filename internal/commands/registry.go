package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Command
	order []string // primary names, sorted
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Command)}
}

// Register adds c under its name and aliases. No key may be taken already,
// and none may look like a flag.
func (r *Registry) Register(c Command) error {
	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, k := range keys {
		if k == "" || strings.HasPrefix(k, "-") {
			return fmt.Errorf("invalid command name: %q", k)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		if _, taken := r.byKey[k]; taken {
			return fmt.Errorf("command name already registered: %s", k)
		}
	}
	for _, k := range keys {
		r.byKey[k] = c
	}
	i, _ := slices.BinarySearch(r.order, c.Name())
	r.order = slices.Insert(r.order, i, c.Name())
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[name]
	return c, ok
}

// All returns each command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.order))
	for i, name := range r.order {
		out[i] = r.byKey[name]
	}
	return out
}

// DefaultRegistry holds the commands registered by this package's init funcs.
var DefaultRegistry = NewRegistry()

// Register adds a command to DefaultRegistry and panics on conflicts.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
