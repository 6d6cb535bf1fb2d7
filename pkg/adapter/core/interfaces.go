// Package core defines the contracts between the orchestration host and
// adapter implementations.
package core

import (
	"context"
	"time"

	"github.com/ajitpratap0/ticketbridge/pkg/ticket"
)

// Status represents externally observable adapter availability
type Status string

const (
	// StatusUnknown is the initial state; it is never emitted
	StatusUnknown Status = "UNKNOWN"
	// StatusOnline means the last healthcheck reached the remote system
	StatusOnline Status = "ONLINE"
	// StatusOffline means the last healthcheck failed
	StatusOffline Status = "OFFLINE"
)

// StatusEvent is the payload delivered to status subscribers
type StatusEvent struct {
	// ID identifies the adapter instance the event originated from
	ID string `json:"id"`
	// Status is the availability the event announces
	Status Status `json:"status"`
	// Timestamp is when the transition was observed
	Timestamp time.Time `json:"timestamp"`
}

// Adapter is the interface the orchestration host drives. The host
// instantiates one adapter per configured external-system connection, calls
// Connect after construction and listens for availability events.
type Adapter interface {
	// Metadata
	ID() string
	SystemType() string

	// Lifecycle
	Connect(ctx context.Context)
	Close(ctx context.Context) error

	// Health and introspection
	Healthcheck(ctx context.Context) Status
	Status() Status
	Metrics() map[string]interface{}

	// Table operations
	GetRecords(ctx context.Context) ([]ticket.ChangeTicket, error)
	PostRecord(ctx context.Context, fields ticket.RawRecord) (ticket.ChangeTicket, error)

	// Event subscription, restricted to the ONLINE/OFFLINE vocabulary
	Subscribe(status Status) (<-chan StatusEvent, error)
	Unsubscribe(ch <-chan StatusEvent)
}
