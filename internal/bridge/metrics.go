package bridge

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge's Prometheus collectors.
//
// A nil *Metrics is valid; every method is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	sessions        prometheus.Gauge
	forwarded       prometheus.Counter
	subscribeErrors prometheus.Counter
}

// NewMetrics creates bridge metrics on a private registry, together with the
// standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cbws",
			Name:      "websocket_sessions",
			Help:      "Number of open websocket sessions",
		}),
		forwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cbws",
			Name:      "messages_forwarded_total",
			Help:      "Total broker messages written to websocket clients",
		}),
		subscribeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cbws",
			Name:      "broker_subscribe_errors_total",
			Help:      "Total websocket requests whose broker subscription failed",
		}),
	}

	m.sessions = registerOrReuse(reg, m.sessions).(prometheus.Gauge)
	m.forwarded = registerOrReuse(reg, m.forwarded).(prometheus.Counter)
	m.subscribeErrors = registerOrReuse(reg, m.subscribeErrors).(prometheus.Counter)
	registerOrReuse(reg, collectors.NewGoCollector())
	registerOrReuse(reg, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// registerOrReuse registers c, or returns the collector already registered
// under the same descriptor. Any other registration failure panics.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

func (m *Metrics) MessageForwarded() {
	if m == nil {
		return
	}
	m.forwarded.Inc()
}

func (m *Metrics) SubscribeFailed() {
	if m == nil {
		return
	}
	m.subscribeErrors.Inc()
}
