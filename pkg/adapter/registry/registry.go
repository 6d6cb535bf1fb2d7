// Package registry manages adapter registration and instantiation. The
// orchestration host creates one adapter per configured connection through
// the global registry.
package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/logger"
)

// Factory creates an adapter instance bound to the given identity and
// configuration.
type Factory func(id string, cfg *config.AdapterConfig) (core.Adapter, error)

// Registry maps external-system types to adapter factories
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "adapter_registry")),
	}
}

// Register registers an adapter factory for a system type
func (r *Registry) Register(systemType string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[systemType]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "adapter %s already registered", systemType)
	}

	r.factories[systemType] = factory
	r.logger.Info("adapter registered", zap.String("system_type", systemType))
	return nil
}

// Create instantiates an adapter for a system type
func (r *Registry) Create(systemType, id string, cfg *config.AdapterConfig) (core.Adapter, error) {
	r.mu.RLock()
	factory, exists := r.factories[systemType]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "adapter %s not found", systemType)
	}

	adapter, err := factory(id, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create adapter "+systemType)
	}

	return adapter, nil
}

// List returns the registered system types
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for systemType := range r.factories {
		types = append(types, systemType)
	}
	return types
}

// Exists reports whether a system type is registered
func (r *Registry) Exists(systemType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[systemType]
	return exists
}

// Register registers an adapter factory in the global registry
func Register(systemType string, factory Factory) error {
	return globalRegistry.Register(systemType, factory)
}

// Create instantiates an adapter from the global registry
func Create(systemType, id string, cfg *config.AdapterConfig) (core.Adapter, error) {
	return globalRegistry.Create(systemType, id, cfg)
}

// List returns the system types registered globally
func List() []string {
	return globalRegistry.List()
}

// Exists reports whether a system type is registered globally
func Exists(systemType string) bool {
	return globalRegistry.Exists(systemType)
}
