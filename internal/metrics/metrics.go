package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

const namespace = "stopwatch"

// Metrics holds the collectors of one stopwatch server on a private registry.
type Metrics struct {
	// registry is the registry served by Handler.
	registry *prometheus.Registry
	// commands counts applied commands by name and origin.
	commands *prometheus.CounterVec
	// laps counts recorded laps.
	laps prometheus.Counter
	// snapshots counts published snapshots by display-state tag.
	snapshots *prometheus.CounterVec
	// elapsed is the elapsed time of the last published snapshot.
	elapsed prometheus.Gauge
	// running is 1 while the stopwatch runs.
	running prometheus.Gauge
	// subscribers is the number of connected presentation layers.
	subscribers prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands applied to the stopwatch.",
		}, []string{"command", "origin"}),
		laps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "laps_recorded_total",
			Help:      "Laps recorded since the server started.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Snapshots pushed to presentation layers.",
		}, []string{"state"}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Elapsed time of the last published snapshot.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the stopwatch is running.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Connected watchers and browser sessions.",
		}),
	}

	m.registry.MustRegister(
		m.commands,
		m.laps,
		m.snapshots,
		m.elapsed,
		m.running,
		m.subscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// ObserveCommand counts a command coming from origin ("grpc", "web", ...).
func (m *Metrics) ObserveCommand(cmd stopwatch.Command, origin string) {
	m.commands.WithLabelValues(cmd.String(), origin).Inc()
}

// ObserveSnapshot updates the gauges from a published snapshot.
// It has the stopwatch.Listener signature.
func (m *Metrics) ObserveSnapshot(snapshot stopwatch.Snapshot) {
	m.snapshots.WithLabelValues(snapshot.State.String()).Inc()
	m.elapsed.Set(snapshot.Elapsed.Seconds())

	if snapshot.State == stopwatch.Running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}

	if snapshot.Lap != "" {
		m.laps.Inc()
	}
}

// SubscriberAdded increments the subscriber gauge.
func (m *Metrics) SubscriberAdded() {
	m.subscribers.Inc()
}

// SubscriberRemoved decrements the subscriber gauge.
func (m *Metrics) SubscriberRemoved() {
	m.subscribers.Dec()
}
