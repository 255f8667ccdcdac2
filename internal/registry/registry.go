// Package registry provides a global registry for processor factories.
// Processors register themselves in init() functions, allowing the frontends
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chip8-runner/internal/core"
)

// Info contains metadata about a registered processor.
type Info struct {
	ID    string
	Title string
}

// Factory is a function that creates a new processor instance.
type Factory func() core.Processor

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a processor factory to the registry.
// Typically called from a package init() function.
// Panics if a processor with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: processor %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered processors, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new processor by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (core.Processor, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown processor %q", id)
	}

	return f(), nil
}

// Exists checks if a processor with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
