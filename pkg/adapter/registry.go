package adapter

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapetl/pkg/core"
)

// Factory builds an unconnected adapter. A nil logger discards output.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	aliases    = make(map[string]string)
)

// Register makes a target type available under name and every alias.
// Adapter packages call it from init. A later registration of a name or
// alias replaces the earlier one.
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, n := range append([]string{name}, alias...) {
		aliases[strings.ToLower(n)] = name
	}
	factories[name] = factory
}

// Canonical returns the registered name for a target type or one of its
// aliases, ignoring case.
func Canonical(typ string) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := aliases[strings.ToLower(typ)]
	return name, ok
}

// Get retrieves the factory for a target type or alias.
func Get(typ string) (Factory, bool) {
	name, ok := Canonical(typ)
	if !ok {
		return nil, false
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	return factories[name], true
}

// NewAdapter creates the adapter for cfg.Type. The logger is passed to the
// adapter constructor.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      cfg.Type,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// ListAdapters returns the registered names, sorted. Aliases are omitted.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// IsRegistered reports whether typ names a registered adapter or alias.
func IsRegistered(typ string) bool {
	_, ok := Canonical(typ)
	return ok
}

// UnknownAdapterError is returned when target.type names no registered adapter.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check your target.type in leapetl.yaml", e.Type, e.Available)
}
