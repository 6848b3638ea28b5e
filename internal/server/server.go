// Package server exposes the reading log over a small JSON API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	bookin "readlog/internal/modules/book/port/in"
	progressin "readlog/internal/modules/progress/port/in"
	sessionin "readlog/internal/modules/session/port/in"
	streakin "readlog/internal/modules/streak/port/in"
	applog "readlog/internal/platform/logger"
)

type Deps struct {
	Books    bookin.Usecase
	Sessions sessionin.Usecase
	Progress progressin.Usecase
	Streak   streakin.Usecase
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

type handler struct {
	books    bookin.Usecase
	sessions sessionin.Usecase
	progress progressin.Usecase
	streak   streakin.Usecase
	logger   *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	h := &handler{
		books:    deps.Books,
		sessions: deps.Sessions,
		progress: deps.Progress,
		streak:   deps.Streak,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.listBooks)
			r.Post("/", h.addBook)
			r.Route("/{bookID}", func(r chi.Router) {
				r.Get("/", h.getBook)
				r.Patch("/", h.updateBook)
				r.Delete("/", h.deleteBook)
				r.Get("/sessions", h.history)
				r.Get("/session", h.activeSession)
				r.Post("/status", h.updateStatus)
				r.Post("/dnf", h.markDNF)
				r.Post("/reread", h.startReread)
			})
		})
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/archive", h.archiveSession)
			r.Get("/progress", h.listProgress)
			r.Post("/progress", h.appendProgress)
		})
		r.Route("/progress/{entryID}", func(r chi.Router) {
			r.Get("/", h.getEntry)
			r.Patch("/", h.editEntry)
			r.Delete("/", h.deleteEntry)
		})
		r.Get("/stats/pages", h.pagesInRange)
		r.Get("/stats/average", h.averagePerDay)
		r.Route("/streak", func(r chi.Router) {
			r.Get("/", h.getStreak)
			r.Post("/rebuild", h.rebuildStreak)
			r.Put("/threshold", h.setThreshold)
			r.Put("/timezone", h.setTimezone)
		})
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.status = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestLogger logs one line per request, at warn for 4xx and error for 5xx.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http_request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
