package pathreg

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// Sentinel errors for registry operations.
var (
	// ErrBackendAlreadyRegistered is returned when a backend name is
	// registered twice.
	ErrBackendAlreadyRegistered = errors.New("path backend already registered")

	// ErrInvalidBackendName is returned for names that are not concrete
	// backends.
	ErrInvalidBackendName = errors.New("invalid path backend name")

	// ErrBackendNotRegistered is returned by Open for unknown names.
	ErrBackendNotRegistered = errors.New("path backend not registered")
)

// Factory builds a backend from tool settings.
type Factory func(cfg *config.Config) (Backend, error)

// Registry maps backend names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == platform.Auto || !platform.ValidBackend(name) || f == nil {
		return errors.Wrapf(ErrInvalidBackendName, "%q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Wrapf(ErrBackendAlreadyRegistered, "%q", name)
	}
	r.factories[name] = f
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in platform.Backends() order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range platform.Backends() {
		if _, ok := r.factories[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Open builds the backend registered under name.
func (r *Registry) Open(name string, cfg *config.Config) (Backend, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrBackendNotRegistered, "%q (have %v)", name, r.Names())
	}
	return f(cfg)
}
