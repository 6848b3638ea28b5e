package usecase

import (
	"context"
	"log/slog"
	"strings"

	"readlog/internal/modules/progress/domain"
	"readlog/internal/modules/progress/dto"
	progressin "readlog/internal/modules/progress/port/in"
	progressout "readlog/internal/modules/progress/port/out"
	"readlog/internal/modules/progress/service"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/metrics"
	"readlog/internal/platform/signal"
	"readlog/internal/platform/tx"
)

// Deps collects the collaborators of the ledger's write side.
type Deps struct {
	Clock    clock.Clock
	Service  *service.LedgerService
	Store    progressout.EntryStore
	Sessions progressout.SessionLookup
	Books    progressout.BookLookup
	Zones    progressout.ZoneResolver
	Streak   progressout.StreakNotifier
	Tx       tx.Manager
	Signals  signal.Invalidator
	Logger   *slog.Logger
	Metrics  metrics.Recorder
}

type Interactor struct {
	*QueryInteractor
	svc      *service.LedgerService
	sessions progressout.SessionLookup
	books    progressout.BookLookup
	streak   progressout.StreakNotifier
	tx       tx.Manager
	signals  signal.Invalidator
	logger   *slog.Logger
	metrics  metrics.Recorder
}

func NewInteractor(deps Deps) progressin.Usecase {
	if deps.Tx == nil {
		deps.Tx = tx.NoopManager{}
	}
	if deps.Signals == nil {
		deps.Signals = signal.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	return &Interactor{
		QueryInteractor: newQueryInteractor(deps.Clock, deps.Store, deps.Zones),
		svc:             deps.Service,
		sessions:        deps.Sessions,
		books:           deps.Books,
		streak:          deps.Streak,
		tx:              deps.Tx,
		signals:         deps.Signals,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
	}
}

func (i *Interactor) Append(ctx context.Context, input dto.AppendInput) (dto.EntryOutput, error) {
	cal, err := i.calendar(ctx, "")
	if err != nil {
		return dto.EntryOutput{}, err
	}
	var entry domain.Entry
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		session, err := i.activeSession(ctx, input.SessionID)
		if err != nil {
			return err
		}
		total, err := i.books.TotalPages(ctx, session.BookID)
		if err != nil {
			return err
		}
		pos, err := domain.ResolvePosition(input.CurrentPage, input.CurrentPercentage, total)
		if err != nil {
			return err
		}
		date, err := cal.DayOrToday(input.ProgressDate)
		if err != nil {
			return err
		}
		entry, err = i.svc.Append(ctx, cal, session, pos, date, strings.TrimSpace(input.Notes))
		if err != nil {
			return apperrors.Internal("append entry", err)
		}
		return i.streak.NoteActivity(ctx, date)
	})
	if err != nil {
		return dto.EntryOutput{}, err
	}

	source := input.Source
	if source == "" {
		source = dto.SourceManual
	}
	i.metrics.RecordProgressLogged(source)
	i.logger.InfoContext(ctx, "progress logged",
		"entry", entry.ID,
		"session", entry.SessionID,
		"page", entry.CurrentPage,
		"pages_read", entry.PagesRead,
		"source", source,
	)
	i.signals.Invalidate(ctx, entry.BookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return toOutput(entry, cal), nil
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditInput) (dto.EntryOutput, error) {
	cal, err := i.calendar(ctx, "")
	if err != nil {
		return dto.EntryOutput{}, err
	}
	if input.ProgressDate != nil {
		if err := cal.NotAfterToday("progress_date", *input.ProgressDate); err != nil {
			return dto.EntryOutput{}, err
		}
	}
	var entry domain.Entry
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := i.entries().Get(ctx, input.EntryID)
		if err != nil {
			return apperrors.Internal("get entry", err)
		}
		session, err := i.activeSession(ctx, existing.SessionID)
		if err != nil {
			return err
		}
		var pos *domain.Position
		if input.CurrentPage != nil || input.CurrentPercentage != nil {
			total, err := i.books.TotalPages(ctx, session.BookID)
			if err != nil {
				return err
			}
			resolved, err := domain.ResolvePosition(input.CurrentPage, input.CurrentPercentage, total)
			if err != nil {
				return err
			}
			pos = &resolved
		}
		var notes *string
		if input.Notes != nil {
			trimmed := strings.TrimSpace(*input.Notes)
			notes = &trimmed
		}
		entry, err = i.svc.Edit(ctx, cal, existing, pos, input.ProgressDate, notes)
		if err != nil {
			return apperrors.Internal("edit entry", err)
		}
		return i.streak.Rebuild(ctx, "ledger-edit")
	})
	if err != nil {
		return dto.EntryOutput{}, err
	}
	i.logger.InfoContext(ctx, "progress edited", "entry", entry.ID, "page", entry.CurrentPage, "pages_read", entry.PagesRead)
	i.signals.Invalidate(ctx, entry.BookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return toOutput(entry, cal), nil
}

// Delete leaves the stored deltas of neighbouring entries untouched.
func (i *Interactor) Delete(ctx context.Context, entryID string) error {
	var bookID string
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := i.entries().Get(ctx, entryID)
		if err != nil {
			return apperrors.Internal("get entry", err)
		}
		if _, err := i.activeSession(ctx, existing.SessionID); err != nil {
			return err
		}
		if err := i.svc.Delete(ctx, entryID); err != nil {
			return apperrors.Internal("delete entry", err)
		}
		bookID = existing.BookID
		return i.streak.Rebuild(ctx, "ledger-delete")
	})
	if err != nil {
		return err
	}
	i.logger.InfoContext(ctx, "progress deleted", "entry", entryID)
	i.signals.Invalidate(ctx, bookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return nil
}

// activeSession loads a session and refuses archived ones, whose entries
// are history.
func (i *Interactor) activeSession(ctx context.Context, sessionID string) (progressout.SessionRef, error) {
	session, err := i.sessions.FindSession(ctx, sessionID)
	if err != nil {
		return progressout.SessionRef{}, err
	}
	if !session.Active {
		return progressout.SessionRef{}, apperrors.Precondition(apperrors.CodeSessionArchived, "session %s is archived; its progress is read-only", sessionID)
	}
	return session, nil
}

func (i *Interactor) entries() progressout.EntryStore {
	return i.QueryInteractor.store
}
