// Package ticketbridge provides a health-checked, event-emitting adapter that
// exposes a normalized CRUD interface over an external ticketing system's
// REST API.
//
// An orchestration host instantiates one adapter per configured connection,
// calls Connect after construction and listens for ONLINE/OFFLINE
// availability events. Each adapter owns one transport connector bound to a
// fixed table resource; table records are normalized into the fixed
// change-ticket shape before they reach the host.
//
// # Quick Start
//
// Create a ServiceNow adapter and probe the remote system:
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
//	    "github.com/ajitpratap0/ticketbridge/pkg/adapter/registry"
//	    "github.com/ajitpratap0/ticketbridge/pkg/config"
//	    _ "github.com/ajitpratap0/ticketbridge/pkg/adapter/servicenow"
//	)
//
//	cfg := config.NewAdapterConfig("https://dev1234.service-now.com", "change_request")
//	cfg.Credentials.Username = "svc_bridge"
//	cfg.Credentials.Password = os.Getenv("SN_PASSWORD")
//
//	adapter, err := registry.Create("servicenow", "sn-prod", cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, _ := adapter.Subscribe(core.StatusOffline)
//	adapter.Connect(context.Background())
//
// # Packages
//
//   - pkg/adapter/core: host-facing contracts (Adapter, Status, StatusEvent)
//   - pkg/adapter/registry: adapter factory registry
//   - pkg/adapter/servicenow: the ServiceNow Table API adapter
//   - pkg/transport: the authenticated HTTP connector
//   - pkg/ticket: the change-ticket domain record and normalization
//   - pkg/config, pkg/logger, pkg/errors, pkg/observability: shared infrastructure
package ticketbridge
