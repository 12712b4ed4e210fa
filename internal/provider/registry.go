package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the known metadata source labels, keyed case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// GlobalRegistry is the default registry instance, preloaded with the
// built-in sources.
var GlobalRegistry = NewRegistry(Builtin()...)

// NewRegistry creates a registry containing sources.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		r.sources[key(s.Name)] = s
	}
	return r
}

// Register adds a source to the registry
func (r *Registry) Register(s Source) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("source name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[key(s.Name)]; exists {
		return fmt.Errorf("source %s already registered", s.Name)
	}
	r.sources[key(s.Name)] = s
	return nil
}

// Get returns a source by name, ignoring case and surrounding whitespace.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[key(name)]
	return s, ok
}

// Canonical returns the registered spelling of name. Unknown labels are
// returned trimmed but otherwise unchanged.
func (r *Registry) Canonical(name string) string {
	if s, ok := r.Get(name); ok {
		return s.Name
	}
	return strings.TrimSpace(name)
}

// List returns all registered sources sorted by priority, then name.
func (r *Registry) List() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the registered source names in List order.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
