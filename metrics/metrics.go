// Package metrics exposes the streamer's Prometheus collectors: gauges for
// the live route/worker/listener counts and counters for the data-plane
// events that matter under overload (dropped-on-lag, send failures,
// rollback unregistrations). Grounded on the *metrics.Prometheus facade in
// the teacher's metrics package: a small struct holding named collectors,
// registered once at startup, with an Inc/Dec/Add method per event.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "ustreamer"

// Metrics is the facade the streamer and its data-plane components report
// through. The zero value is not usable; construct with New.
type Metrics struct {
	ActiveRoutes           prometheus.Gauge
	ActiveEgressWorkers    prometheus.Gauge
	ActiveIngressListeners prometheus.Gauge

	MessagesForwarded       prometheus.Counter
	MessagesDroppedOnLag    prometheus.Counter
	SendFailures            prometheus.Counter
	RollbackUnregistrations prometheus.Counter
}

// New creates a Metrics facade and registers its collectors with reg. Pass
// prometheus.NewRegistry() for an isolated registry (tests) or
// prometheus.DefaultRegisterer for the process-wide default.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRoutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_routes",
			Help:      "Number of routes currently installed in the route table.",
		}),
		ActiveEgressWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_egress_workers",
			Help:      "Number of egress worker goroutines currently running.",
		}),
		ActiveIngressListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_ingress_listeners",
			Help:      "Number of distinct ingress listener registrations currently installed.",
		}),
		MessagesForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_forwarded_total",
			Help:      "Messages successfully handed to an egress transport's Send.",
		}),
		MessagesDroppedOnLag: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_on_lag_total",
			Help:      "Messages overwritten in a broadcast queue before an egress worker could read them.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Egress transport Send calls that returned an error.",
		}),
		RollbackUnregistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollback_unregistrations_total",
			Help:      "Listener unregistrations performed while rolling back a failed route install.",
		}),
	}

	reg.MustRegister(
		m.ActiveRoutes,
		m.ActiveEgressWorkers,
		m.ActiveIngressListeners,
		m.MessagesForwarded,
		m.MessagesDroppedOnLag,
		m.SendFailures,
		m.RollbackUnregistrations,
	)

	return m
}

// The Inc/Add helpers below tolerate a nil receiver so callers can thread
// an optional *Metrics through the data plane without a nil check at every
// call site; a streamer built without metrics simply reports to nobody.

func (m *Metrics) IncActiveRoutes() {
	if m == nil {
		return
	}
	m.ActiveRoutes.Inc()
}

func (m *Metrics) DecActiveRoutes() {
	if m == nil {
		return
	}
	m.ActiveRoutes.Dec()
}

func (m *Metrics) IncActiveEgressWorkers() {
	if m == nil {
		return
	}
	m.ActiveEgressWorkers.Inc()
}

func (m *Metrics) DecActiveEgressWorkers() {
	if m == nil {
		return
	}
	m.ActiveEgressWorkers.Dec()
}

func (m *Metrics) IncActiveIngressListeners() {
	if m == nil {
		return
	}
	m.ActiveIngressListeners.Inc()
}

func (m *Metrics) DecActiveIngressListeners() {
	if m == nil {
		return
	}
	m.ActiveIngressListeners.Dec()
}

func (m *Metrics) IncMessagesForwarded() {
	if m == nil {
		return
	}
	m.MessagesForwarded.Inc()
}

func (m *Metrics) AddMessagesDroppedOnLag(n uint64) {
	if m == nil {
		return
	}
	m.MessagesDroppedOnLag.Add(float64(n))
}

func (m *Metrics) IncSendFailures() {
	if m == nil {
		return
	}
	m.SendFailures.Inc()
}

func (m *Metrics) AddRollbackUnregistrations(n int) {
	if m == nil {
		return
	}
	m.RollbackUnregistrations.Add(float64(n))
}
