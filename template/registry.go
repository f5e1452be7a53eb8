package template

import (
	"embed"
	"fmt"
	"path"
	"sync"
)

//go:embed templates/*.json
var builtinFS embed.FS

var (
	mu       sync.RWMutex
	registry map[string]*Template
)

// loadBuiltins parses every embedded template definition. Built-in
// definitions are part of the build; a parse failure here is a
// programming error and panics at first use.
func loadBuiltins() {
	registry = make(map[string]*Template)
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		panic(fmt.Sprintf("template: reading builtins: %v", err))
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("templates", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("template: reading builtin %s: %v", e.Name(), err))
		}
		t, err := parse(data)
		if err != nil {
			panic(fmt.Sprintf("template: builtin %s: %v", e.Name(), err))
		}
		registry[t.Name] = t
	}
}

var loadOnce sync.Once

// Load returns the named template. Loaded templates are immutable and
// safe for concurrent use across generation runs.
func Load(name string) (*Template, error) {
	loadOnce.Do(loadBuiltins)

	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// Register parses and validates a caller-supplied template definition
// and adds it to the registry, replacing any existing template with the
// same name. Returns the loaded template.
func Register(data []byte) (*Template, error) {
	loadOnce.Do(loadBuiltins)

	t, err := parse(data)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	registry[t.Name] = t
	mu.Unlock()
	return t, nil
}

// Names lists all registered template names.
func Names() []string {
	loadOnce.Do(loadBuiltins)

	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
