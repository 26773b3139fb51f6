package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ah_ledger"

// Group outcomes.
const (
	OutcomeWritten     = "written"
	OutcomeUnavailable = "unavailable"
	OutcomeWriteFailed = "write_failed"
)

// Metrics holds the ledger's Prometheus collectors.
type Metrics struct {
	GroupsTotal      *prometheus.CounterVec
	FetchAttempts    *prometheus.CounterVec
	AuctionsIngested prometheus.Counter
	SinkErrors       prometheus.Counter

	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Gauge
	LastSuccessfulRun prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// A nil reg creates a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		GroupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "groups_total",
			Help:      "Auction houses processed by outcome",
		}, []string{"outcome"}),
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "fetch_attempts_total",
			Help:      "Auction status requests by whether a file listing was present",
		}, []string{"listed"}),
		AuctionsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "auctions_ingested_total",
			Help:      "Auctions folded into written auction houses",
		}),
		SinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "sink_errors_total",
			Help:      "Failed Postgres sink writes",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Completed ledger passes by status",
		}, []string{"status"}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_duration_seconds",
			Help:      "Duration of the most recent ledger pass",
		}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last pass that wrote every auction house",
		}),
	}
}

// ObserveFetchAttempt counts one auction status request.
func (m *Metrics) ObserveFetchAttempt(_ string, listed bool) {
	m.FetchAttempts.WithLabelValues(strconv.FormatBool(listed)).Inc()
}

// ObserveGroup counts one processed auction house.
func (m *Metrics) ObserveGroup(outcome string, auctions int) {
	m.GroupsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeWritten {
		m.AuctionsIngested.Add(float64(auctions))
	}
}

// ObserveSinkError counts one failed Postgres write.
func (m *Metrics) ObserveSinkError() {
	m.SinkErrors.Inc()
}

// ObserveRun records a completed pass.
func (m *Metrics) ObserveRun(status string, d time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Set(d.Seconds())
	if status == "ok" {
		m.LastSuccessfulRun.SetToCurrentTime()
	}
}

// Handler returns an HTTP handler serving the metrics in g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
