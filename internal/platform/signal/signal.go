// Package signal tells view-layer caches which projections went stale
// after a mutation. It never owns a cache itself.
package signal

import (
	"context"
	"log/slog"

	"readlog/internal/platform/metrics"
)

type View string

const (
	ViewDashboard View = "dashboard"
	ViewBook      View = "book"
	ViewStats     View = "stats"
)

// Invalidator is called after a successful mutation. ref is the book id
// for ViewBook and empty otherwise.
type Invalidator interface {
	Invalidate(ctx context.Context, ref string, views ...View)
}

type Nop struct{}

func (Nop) Invalidate(context.Context, string, ...View) {}

// LogInvalidator records each signal as a debug log line and a counter.
type LogInvalidator struct {
	logger  *slog.Logger
	metrics metrics.Recorder
}

func NewLogInvalidator(logger *slog.Logger, recorder metrics.Recorder) *LogInvalidator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &LogInvalidator{logger: logger, metrics: recorder}
}

func (l *LogInvalidator) Invalidate(ctx context.Context, ref string, views ...View) {
	for _, view := range views {
		l.metrics.RecordInvalidation(string(view))
		if l.logger != nil {
			l.logger.DebugContext(ctx, "view invalidated", "view", string(view), "ref", ref)
		}
	}
}

// Recorder collects signals in memory. Tests use it to assert which views
// a mutation touched.
type Recorder struct {
	Signals []Signal
}

type Signal struct {
	Ref  string
	View View
}

func (r *Recorder) Invalidate(_ context.Context, ref string, views ...View) {
	for _, view := range views {
		r.Signals = append(r.Signals, Signal{Ref: ref, View: view})
	}
}

func (r *Recorder) Has(view View) bool {
	for _, s := range r.Signals {
		if s.View == view {
			return true
		}
	}
	return false
}
