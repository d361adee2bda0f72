package convert

import (
	"path"
	"slices"
	"strings"
	"sync"
)

// RegistryEntry is what other modules may learn about a converted module.
type RegistryEntry struct {
	Path    string
	Data    []string
	Props   []string
	Methods []string
	// GlobalFunctions and GlobalValues are the globalData members of an App.
	GlobalFunctions []string
	GlobalValues    []string
	Kind            Kind
}

// GlobalMember reports whether name is a globalData member of an App entry.
func (entry RegistryEntry) GlobalMember(name string) bool {
	return slices.Contains(entry.GlobalFunctions, name) || slices.Contains(entry.GlobalValues, name)
}

// Registry is the per-run table of module classifications. Each module
// publishes once, right after collection; lookups never block on modules that
// have not been converted yet.
type Registry struct {
	entries map[string]RegistryEntry
	appKey  string
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RegistryEntry)}
}

// Publish records an entry. It returns false when the path was already
// published; the first entry stays.
func (registry *Registry) Publish(entry RegistryEntry) bool {
	key := registryKey(entry.Path)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.entries[key]; exists {
		return false
	}

	registry.entries[key] = entry

	if entry.Kind == KindApp && registry.appKey == "" {
		registry.appKey = key
	}

	return true
}

// Lookup returns the entry of a module path, with or without the .js suffix.
func (registry *Registry) Lookup(modulePath string) (RegistryEntry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	entry, ok := registry.entries[registryKey(modulePath)]

	return entry, ok
}

// App returns the entry of the App module once it has been published.
func (registry *Registry) App() (RegistryEntry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if registry.appKey == "" {
		return RegistryEntry{}, false
	}

	return registry.entries[registry.appKey], true
}

// Len returns the number of published modules.
func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return len(registry.entries)
}

func registryKey(modulePath string) string {
	key := path.Clean(slashPath(modulePath))

	return strings.TrimSuffix(key, ".js")
}
