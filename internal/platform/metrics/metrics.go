// Package metrics collects domain counters and exposes them to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what usecases report to.
type Recorder interface {
	RecordProgressLogged(source string)
	RecordStatusTransition(from, to string)
	RecordSessionArchived(status string)
	RecordStreakRebuild(reason string)
	RecordInvalidation(view string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	progressLogged    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	sessionsArchived  *prometheus.CounterVec
	streakRebuilds    *prometheus.CounterVec
	invalidations     *prometheus.CounterVec
}

// NewCollector registers the readlog counters on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		progressLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readlog_progress_entries_total",
			Help: "Progress entries written, by source (manual or completion).",
		}, []string{"source"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readlog_status_transitions_total",
			Help: "Reading status transitions.",
		}, []string{"from", "to"}),
		sessionsArchived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readlog_sessions_archived_total",
			Help: "Reading sessions archived, by final status.",
		}, []string{"status"}),
		streakRebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readlog_streak_rebuilds_total",
			Help: "Full streak rebuilds, by trigger.",
		}, []string{"reason"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readlog_view_invalidations_total",
			Help: "Cache invalidation signals emitted, by view.",
		}, []string{"view"}),
	}
	reg.MustRegister(c.progressLogged, c.statusTransitions, c.sessionsArchived, c.streakRebuilds, c.invalidations)
	return c
}

func (c *Collector) RecordProgressLogged(source string) {
	c.progressLogged.WithLabelValues(source).Inc()
}

func (c *Collector) RecordStatusTransition(from, to string) {
	c.statusTransitions.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordSessionArchived(status string) {
	c.sessionsArchived.WithLabelValues(status).Inc()
}

func (c *Collector) RecordStreakRebuild(reason string) {
	c.streakRebuilds.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordInvalidation(view string) {
	c.invalidations.WithLabelValues(view).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordProgressLogged(string)          {}
func (Nop) RecordStatusTransition(string, string) {}
func (Nop) RecordSessionArchived(string)          {}
func (Nop) RecordStreakRebuild(string)            {}
func (Nop) RecordInvalidation(string)             {}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
