package servicenow

import (
	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/adapter/registry"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
)

func init() {
	// Register the ServiceNow adapter in the global registry
	registry.Register(SystemType, func(id string, cfg *config.AdapterConfig) (core.Adapter, error) {
		return New(id, cfg)
	})
}
