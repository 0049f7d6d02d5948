package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// OpenFunc opens a backend. ctx bounds the connection attempt only.
type OpenFunc func(ctx context.Context, cfg Config) (Store, error)

var (
	registry   = make(map[string]OpenFunc)
	registryMu sync.RWMutex
)

// Register adds a backend under name.
// Panics if a backend with the same name is already registered.
func Register(name string, open OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("store driver already registered: %s", name))
	}
	registry[name] = open
}

func lookup(name string) (OpenFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	open, ok := registry[name]
	return open, ok
}

// Drivers returns the registered backend names, sorted.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
