// Package bootstrap wires the modules together. Construction order
// follows the read/write split of each module: query sides are built
// first so the write sides that depend on them can be assembled without
// cycles.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	bookinadapter "readlog/internal/modules/book/adapter/in"
	bookoutadapter "readlog/internal/modules/book/adapter/out"
	bookin "readlog/internal/modules/book/port/in"
	bookservice "readlog/internal/modules/book/service"
	bookusecase "readlog/internal/modules/book/usecase"
	progressinadapter "readlog/internal/modules/progress/adapter/in"
	progressoutadapter "readlog/internal/modules/progress/adapter/out"
	progressin "readlog/internal/modules/progress/port/in"
	progressservice "readlog/internal/modules/progress/service"
	progressusecase "readlog/internal/modules/progress/usecase"
	sessioninadapter "readlog/internal/modules/session/adapter/in"
	sessionoutadapter "readlog/internal/modules/session/adapter/out"
	sessionin "readlog/internal/modules/session/port/in"
	sessionout "readlog/internal/modules/session/port/out"
	sessionservice "readlog/internal/modules/session/service"
	sessionusecase "readlog/internal/modules/session/usecase"
	streakinadapter "readlog/internal/modules/streak/adapter/in"
	streakoutadapter "readlog/internal/modules/streak/adapter/out"
	streakin "readlog/internal/modules/streak/port/in"
	streakservice "readlog/internal/modules/streak/service"
	streakusecase "readlog/internal/modules/streak/usecase"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/config"
	"readlog/internal/platform/database"
	"readlog/internal/platform/id"
	"readlog/internal/platform/logger"
	"readlog/internal/platform/metrics"
	"readlog/internal/platform/signal"
	"readlog/internal/platform/tx"
)

type App struct {
	BookCLI     bookinadapter.CLIHandler
	SessionCLI  sessioninadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	StreakCLI   streakinadapter.CLIHandler

	Books    bookin.Usecase
	Sessions sessionin.Usecase
	Progress progressin.Usecase
	Streak   streakin.Usecase

	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	db      *sql.DB
	ratings *sessionoutadapter.WebhookRatingSync
}

type options struct {
	clock      clock.Clock
	ids        id.Generator
	logger     *slog.Logger
	registry   *prometheus.Registry
	httpClient *http.Client
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithIDs(g id.Generator) Option {
	return func(o *options) { o.ids = g }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithHTTPClient sets the client used for rating sync.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{
		clock: clock.SystemClock{},
		ids:   id.UUID{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	txm := tx.NewSQLManager(db)
	recorder := metrics.NewCollector(o.registry)
	signals := signal.NewLogInvalidator(o.logger, recorder)

	// Read sides.
	bookStore := bookoutadapter.NewSQLiteBookStore(db)
	bookSvc := bookservice.NewBookService(o.clock, o.ids, bookStore, bookoutadapter.NewPDFPageCounter())
	bookQueries := bookusecase.NewQueryInteractor(bookStore)

	sessionStore := sessionoutadapter.NewSQLiteSessionStore(db)
	sessionQueries := sessionusecase.NewQueryInteractor(sessionStore)

	streakSvc := streakservice.NewStreakService(o.clock, streakoutadapter.NewSQLiteStreakStore(db), cfg.DefaultTimezone)
	streakQueries := streakusecase.NewQueryInteractor(streakSvc)

	entryStore := progressoutadapter.NewSQLiteEntryStore(db)
	progressZones := progressoutadapter.NewStreakZoneAdapter(streakQueries)
	progressQueries := progressusecase.NewQueryInteractor(o.clock, entryStore, progressZones)

	// Write sides, each consuming the read sides built above.
	streakUC := streakusecase.NewInteractor(
		streakSvc,
		streakoutadapter.NewLedgerActivityAdapter(progressQueries),
		txm,
		o.logger.With("module", "streak"),
		recorder,
	)

	progressUC := progressusecase.NewInteractor(progressusecase.Deps{
		Clock:    o.clock,
		Service:  progressservice.NewLedgerService(o.clock, o.ids, entryStore),
		Store:    entryStore,
		Sessions: progressoutadapter.NewSessionLookupAdapter(sessionQueries),
		Books:    progressoutadapter.NewBookLookupAdapter(bookQueries),
		Zones:    progressZones,
		Streak:   progressoutadapter.NewStreakNotifierAdapter(streakUC),
		Tx:       txm,
		Signals:  signals,
		Logger:   o.logger.With("module", "progress"),
		Metrics:  recorder,
	})

	var ratings sessionout.RatingSync = sessionoutadapter.NopRatingSync{}
	var ratingSync *sessionoutadapter.WebhookRatingSync
	var journal sessionout.Journal = sessionoutadapter.NopJournal{}
	if cfg.RatingSyncURL != "" {
		ratingSync = sessionoutadapter.NewWebhookRatingSync(o.httpClient, cfg.RatingSyncURL, o.logger.With("module", "rating-sync"))
		ratings = ratingSync
	}
	if cfg.JournalDir != "" {
		journal = sessionoutadapter.NewVaultJournal(cfg.JournalDir)
	}
	sessionUC := sessionusecase.NewInteractor(sessionusecase.Deps{
		Clock:   o.clock,
		Service: sessionservice.NewSessionService(o.clock, o.ids, sessionStore),
		Store:   sessionStore,
		Books:   sessionoutadapter.NewBookLookupAdapter(bookQueries),
		Ledger:  sessionoutadapter.NewProgressLedgerAdapter(progressUC),
		Zones:   sessionoutadapter.NewStreakZoneAdapter(streakQueries),
		Streak:  sessionoutadapter.NewStreakRebuildAdapter(streakUC),
		Ratings: ratings,
		Journal: journal,
		Tx:      txm,
		Signals: signals,
		Logger:  o.logger.With("module", "session"),
		Metrics: recorder,
	})

	bookUC := bookusecase.NewInteractor(bookusecase.Deps{
		Service:  bookSvc,
		Store:    bookStore,
		Enroller: bookoutadapter.NewSessionEnrollerAdapter(sessionUC),
		Streak:   bookoutadapter.NewStreakRebuildAdapter(streakUC),
		Tx:       txm,
		Signals:  signals,
		Logger:   o.logger.With("module", "book"),
	})

	return &App{
		BookCLI:     bookinadapter.NewCLIHandler(bookUC),
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		StreakCLI:   streakinadapter.NewCLIHandler(streakUC),
		Books:       bookUC,
		Sessions:    sessionUC,
		Progress:    progressUC,
		Streak:      streakUC,
		Config:      cfg,
		Logger:      o.logger,
		Registry:    o.registry,
		db:          db,
		ratings:     ratingSync,
	}, nil
}

// MetricsHandler serves the app's registry.
func (a *App) MetricsHandler() http.Handler {
	return metrics.Handler(a.Registry)
}

// Close waits for background rating posts and closes the database.
func (a *App) Close() error {
	if a.ratings != nil {
		a.ratings.Close()
	}
	return a.db.Close()
}
