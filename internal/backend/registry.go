package backend

import (
	"fmt"
	"sort"
)

// Factory builds one backend variant. seed feeds the simulator RNG so
// runs are reproducible under test.
type Factory func(seed int64) Backend

var factories = map[string]Factory{}

// RegisterFactory adds a backend constructor under its namespace name.
// Called from backend package init functions at composition time.
func RegisterFactory(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("backend: invalid factory registration")
	}
	if _, ok := factories[name]; ok {
		panic(fmt.Sprintf("backend: duplicate factory %q", name))
	}
	factories[name] = factory
}

// Open resolves a backend by name.
func Open(name string, seed int64) (Backend, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Names())
	}
	return factory(seed), nil
}

// Names returns registered backend names in deterministic order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
