// Package servicenow implements the change-ticket adapter for the ServiceNow
// Table API. It owns one transport connector per adapter instance, normalizes
// table records into the fixed domain shape, and reports availability through
// ONLINE/OFFLINE events driven by healthchecks.
package servicenow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/logger"
	"github.com/ajitpratap0/ticketbridge/pkg/transport"
)

// SystemType is the registry key for this adapter
const SystemType = "servicenow"

// Adapter is the facade the orchestration host holds. Configuration and the
// transport connector are fixed at construction; the only mutable state is
// the last observed status and the subscriber set, both mutex-guarded.
type Adapter struct {
	id        string
	cfg       *config.AdapterConfig
	connector transport.Connector
	logger    *zap.Logger

	emitter *statusEmitter
	metrics adapterMetrics

	statusMu sync.RWMutex
	status   core.Status
}

// New creates an adapter bound to the given identity and configuration. It
// fails fast when the configuration is incomplete or the connector refuses
// the URL.
func New(id string, cfg *config.AdapterConfig) (*Adapter, error) {
	if id == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "adapter id is required")
	}
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "configuration is required")
	}

	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid adapter configuration")
	}

	connector, err := transport.NewHTTPConnector(cfg)
	if err != nil {
		return nil, err
	}

	return newWithConnector(id, cfg, connector), nil
}

// NewWithConnector creates an adapter around an existing connector. Hosts use
// it to supply an instrumented or fake transport.
func NewWithConnector(id string, cfg *config.AdapterConfig, connector transport.Connector) *Adapter {
	if cfg == nil {
		cfg = config.NewAdapterConfig("", "")
	}
	return newWithConnector(id, cfg.Clone(), connector)
}

func newWithConnector(id string, cfg *config.AdapterConfig, connector transport.Connector) *Adapter {
	log := logger.Get().With(
		zap.String("adapter", SystemType),
		zap.String("adapter_id", id))

	return &Adapter{
		id:        id,
		cfg:       cfg,
		connector: connector,
		logger:    log,
		emitter:   newStatusEmitter(id, log),
		status:    core.StatusUnknown,
	}
}

// ID returns the adapter identity
func (a *Adapter) ID() string {
	return a.id
}

// SystemType returns the external system type this adapter speaks to
func (a *Adapter) SystemType() string {
	return SystemType
}

// Status returns the last observed availability. Before the first healthcheck
// completes this is StatusUnknown, which is never emitted.
func (a *Adapter) Status() core.Status {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

// Connect triggers exactly one healthcheck, discarding its data. Its only
// purpose is the resulting status emission; the host learns availability
// through its subscription.
func (a *Adapter) Connect(ctx context.Context) {
	a.logger.Info("connecting to remote system",
		zap.String("url", a.cfg.URL),
		zap.String("table", a.cfg.TableName))
	a.Healthcheck(ctx)
}

// Close shuts down the emitter and releases transport resources
func (a *Adapter) Close(ctx context.Context) error {
	a.emitter.close()
	if err := a.connector.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close connector")
	}
	a.logger.Info("adapter closed")
	return nil
}

// Subscribe registers for availability events of the given status
func (a *Adapter) Subscribe(status core.Status) (<-chan core.StatusEvent, error) {
	return a.emitter.subscribe(status)
}

// Unsubscribe removes a subscription obtained from Subscribe
func (a *Adapter) Unsubscribe(ch <-chan core.StatusEvent) {
	a.emitter.unsubscribe(ch)
}

func (a *Adapter) setStatus(status core.Status) {
	a.statusMu.Lock()
	a.status = status
	a.statusMu.Unlock()
}
