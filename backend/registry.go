package backend

import (
	"sync"

	"github.com/gogpu/winmux"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// Real windows beat the in-memory double.
	backendPriority = []string{BackendWGPU, BackendHeadless}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be
// replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a platform instance by name.
// Returns nil if the backend is not registered.
func Get(name string) winmux.Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available platform based on priority.
// Returns nil if no backends are registered.
func Default() winmux.Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if p := factory(); p != nil {
				return p
			}
		}
	}

	// Fallback: return first available
	for _, factory := range backends {
		if p := factory(); p != nil {
			return p
		}
	}

	return nil
}

// MustDefault returns the default platform or panics.
func MustDefault() winmux.Platform {
	p := Default()
	if p == nil {
		panic("backend: no backend available")
	}
	return p
}

// InitDefault returns the default platform, initialized.
func InitDefault() (winmux.Platform, error) {
	p := Default()
	if p == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := p.Init(); err != nil {
		return nil, err
	}
	return p, nil
}
