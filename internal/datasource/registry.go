package datasource

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
)

// Factory constructs a datasource bound to the given credentials handle.
type Factory func(creds *credentials.Credentials) (Datasource, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a factory under a type name. Implementations call it from
// init, so the table is static by the time callers resolve anything.
// Registering the same name twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("datasource: type %q registered twice", name))
	}
	registry[name] = f
}

// New constructs a datasource of the named type bound to creds.
func New(name string, creds *credentials.Credentials) (Datasource, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrorUnknownDatasource, name)
	}
	return f(creds)
}

// Types lists the registered type names, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
