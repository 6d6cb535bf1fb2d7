package servicenow

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketbridge",
		Subsystem: "adapter",
		Name:      "requests_total",
		Help:      "Table requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	healthchecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketbridge",
		Subsystem: "adapter",
		Name:      "healthchecks_total",
		Help:      "Healthcheck probes by resulting status.",
	}, []string{"adapter_id", "status"})

	statusGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ticketbridge",
		Subsystem: "adapter",
		Name:      "online",
		Help:      "Whether the adapter last observed the remote system online.",
	}, []string{"adapter_id"})
)

// adapterMetrics holds the per-instance counters behind the Metrics accessor.
// They count regardless of the EnableMetrics setting, which only gates the
// Prometheus collectors.
type adapterMetrics struct {
	recordsRead    atomic.Int64
	recordsWritten atomic.Int64
	requestErrors  atomic.Int64
	healthchecks   atomic.Int64
}

// Metrics returns a snapshot of per-instance counters
func (a *Adapter) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"records_read":    a.metrics.recordsRead.Load(),
		"records_written": a.metrics.recordsWritten.Load(),
		"request_errors":  a.metrics.requestErrors.Load(),
		"healthchecks":    a.metrics.healthchecks.Load(),
		"status":          string(a.Status()),
	}
}

func (a *Adapter) recordRequest(operation string, err error) {
	if err != nil {
		a.metrics.requestErrors.Add(1)
	}
	if !a.cfg.Observability.EnableMetrics {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = string(errors.GetType(err))
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
}

func (a *Adapter) recordHealthcheck(status core.Status) {
	a.metrics.healthchecks.Add(1)
	if !a.cfg.Observability.EnableMetrics {
		return
	}

	healthchecksTotal.WithLabelValues(a.id, string(status)).Inc()

	online := 0.0
	if status == core.StatusOnline {
		online = 1.0
	}
	statusGauge.WithLabelValues(a.id).Set(online)
}
