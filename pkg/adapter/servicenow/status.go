package servicenow

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/observability"
)

// subscriberBuffer bounds each subscriber channel; a subscriber that falls
// this far behind starts dropping events.
const subscriberBuffer = 8

// Healthcheck probes the remote system with a single table read. A failed
// read transitions the adapter to OFFLINE, a successful one to ONLINE, and
// exactly one matching event is emitted. The check itself never returns an
// error: failures are the OFFLINE outcome. It is single-shot; the host
// invokes it repeatedly if it wants continuous monitoring.
func (a *Adapter) Healthcheck(ctx context.Context) core.Status {
	ctx, span := observability.StartSpan(ctx, "adapter.healthcheck",
		observability.String("adapter_id", a.id))
	defer span.End()

	_, err := a.GetRecords(ctx)

	status := core.StatusOnline
	if err != nil {
		status = core.StatusOffline
		a.logger.Warn("healthcheck failed", zap.Error(err))
	} else {
		a.logger.Debug("healthcheck succeeded")
	}

	span.SetAttributes(observability.Bool("online", status == core.StatusOnline))
	a.setStatus(status)
	a.recordHealthcheck(status)
	a.emitter.emit(status)

	return status
}

// statusEmitter is a publish/subscribe mechanism restricted to the
// ONLINE/OFFLINE vocabulary. Publishing never blocks: a full subscriber
// channel drops the event.
type statusEmitter struct {
	adapterID string
	logger    *zap.Logger

	mu          sync.Mutex
	closed      bool
	subscribers map[core.Status][]chan core.StatusEvent
}

func newStatusEmitter(adapterID string, logger *zap.Logger) *statusEmitter {
	return &statusEmitter{
		adapterID:   adapterID,
		logger:      logger.With(zap.String("component", "status_emitter")),
		subscribers: make(map[core.Status][]chan core.StatusEvent),
	}
}

func (e *statusEmitter) subscribe(status core.Status) (<-chan core.StatusEvent, error) {
	if status != core.StatusOnline && status != core.StatusOffline {
		return nil, errors.Newf(errors.ErrorTypeConfig, "cannot subscribe to status %q", status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, errors.New(errors.ErrorTypeConnection, "emitter is closed")
	}

	ch := make(chan core.StatusEvent, subscriberBuffer)
	e.subscribers[status] = append(e.subscribers[status], ch)
	return ch, nil
}

func (e *statusEmitter) unsubscribe(ch <-chan core.StatusEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for status, subs := range e.subscribers {
		for i, sub := range subs {
			if sub == ch {
				e.subscribers[status] = append(subs[:i], subs[i+1:]...)
				close(sub)
				return
			}
		}
	}
}

func (e *statusEmitter) emit(status core.Status) {
	event := core.StatusEvent{
		ID:        e.adapterID,
		Status:    status,
		Timestamp: time.Now(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	for _, sub := range e.subscribers[status] {
		select {
		case sub <- event:
		default:
			e.logger.Warn("dropping status event for slow subscriber",
				zap.String("status", string(status)))
		}
	}
}

func (e *statusEmitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	for _, subs := range e.subscribers {
		for _, sub := range subs {
			close(sub)
		}
	}
	e.subscribers = make(map[core.Status][]chan core.StatusEvent)
}
