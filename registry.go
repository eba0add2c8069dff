package vakya

import (
	"fmt"
	"sort"
	"sync"
)

// The backend registry maps identifier strings to adapter factories.
// Backend packages register themselves in init, so selecting a backend
// is a blank import plus an identifier -- no runtime reflection.

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend factory available under the given identifier.
// It panics on an empty identifier, a nil factory, or a duplicate
// registration, mirroring database/sql driver registration.
func Register(id string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if id == "" {
		panic("vakya: Register with empty backend identifier")
	}
	if f == nil {
		panic("vakya: Register with nil factory for " + id)
	}
	if _, dup := registry[id]; dup {
		panic("vakya: Register called twice for backend " + id)
	}
	registry[id] = f
}

// Backends returns the sorted identifiers of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookup(id string) (Factory, error) {
	registryMu.RLock()
	f, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend %q (registered: %v): %w", id, Backends(), ErrPluginNotFound)
	}
	return f, nil
}
