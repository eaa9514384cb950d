// Package metrics exposes Prometheus instrumentation for command handling.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the command-processing collectors for one bot instance.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal      *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

// New creates a registry with process collectors and command counters.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	commandsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenroom",
		Name:      "commands_total",
		Help:      "Commands dispatched, by command name and outcome code.",
	}, []string{"command", "outcome"})
	notificationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenroom",
		Name:      "notifications_total",
		Help:      "Notification deliveries attempted, by result.",
	}, []string{"result"})
	registry.MustRegister(commandsTotal, notificationsTotal)

	return &Metrics{
		registry:           registry,
		commandsTotal:      commandsTotal,
		notificationsTotal: notificationsTotal,
	}
}

// ObserveCommand records one dispatched command and its outcome code.
func (m *Metrics) ObserveCommand(command, outcome string) {
	if m == nil || m.commandsTotal == nil {
		return
	}
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveNotification records one notification delivery attempt.
func (m *Metrics) ObserveNotification(result string) {
	if m == nil || m.notificationsTotal == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
