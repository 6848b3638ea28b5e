package usecase

import (
	"context"
	"log/slog"

	"readlog/internal/modules/session/domain"
	"readlog/internal/modules/session/dto"
	sessionin "readlog/internal/modules/session/port/in"
	sessionout "readlog/internal/modules/session/port/out"
	"readlog/internal/modules/session/service"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/metrics"
	"readlog/internal/platform/signal"
	"readlog/internal/platform/tx"
)

// Deps collects the collaborators of the state machine. Ratings and
// Journal are optional.
type Deps struct {
	Clock   clock.Clock
	Service *service.SessionService
	Store   sessionout.SessionStore
	Books   sessionout.BookLookup
	Ledger  sessionout.ProgressLedger
	Zones   sessionout.ZoneResolver
	Streak  sessionout.StreakRebuilder
	Ratings sessionout.RatingSync
	Journal sessionout.Journal
	Tx      tx.Manager
	Signals signal.Invalidator
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

type Interactor struct {
	*QueryInteractor
	clock   clock.Clock
	svc     *service.SessionService
	books   sessionout.BookLookup
	ledger  sessionout.ProgressLedger
	zones   sessionout.ZoneResolver
	streak  sessionout.StreakRebuilder
	ratings sessionout.RatingSync
	journal sessionout.Journal
	tx      tx.Manager
	signals signal.Invalidator
	logger  *slog.Logger
	metrics metrics.Recorder
}

func NewInteractor(deps Deps) sessionin.Usecase {
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
		QueryInteractor: &QueryInteractor{store: deps.Store},
		clock:           deps.Clock,
		svc:             deps.Service,
		books:           deps.Books,
		ledger:          deps.Ledger,
		zones:           deps.Zones,
		streak:          deps.Streak,
		ratings:         deps.Ratings,
		journal:         deps.Journal,
		tx:              deps.Tx,
		signals:         deps.Signals,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
	}
}

// Enroll opens the first session of a newly added book.
func (i *Interactor) Enroll(ctx context.Context, input dto.EnrollInput) (dto.SessionOutput, error) {
	status := domain.StatusToRead
	if input.Status != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return dto.SessionOutput{}, err
		}
		status = parsed
	}
	if status != domain.StatusToRead && status != domain.StatusReadNext {
		return dto.SessionOutput{}, apperrors.Validation(apperrors.CodeInvalidStatus, "status", "a new book starts as to-read or read-next, not %s", status)
	}
	cal, err := i.calendar(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	var session domain.Session
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := i.books.FindBook(ctx, input.BookID); err != nil {
			return err
		}
		var err error
		if _, ok, err := i.sessions().FindActive(ctx, input.BookID); err != nil {
			return apperrors.Internal("find active session", err)
		} else if ok {
			return apperrors.ErrActiveSessionExists
		}
		session, err = i.svc.Create(ctx, input.BookID, status, cal.Today())
		return apperrors.Internal("create session", err)
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	i.logger.InfoContext(ctx, "book enrolled", "book", session.BookID, "session", session.ID, "status", string(session.Status))
	i.signals.Invalidate(ctx, session.BookID, signal.ViewDashboard, signal.ViewBook)
	return toOutput(session), nil
}

// UpdateStatus is the main transition entry point. Moving to read
// archives the session, synthesizing a 100% ledger entry first when the
// book has a page count.
func (i *Interactor) UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.UpdateStatusOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.UpdateStatusOutput{}, err
	}
	if err := domain.ValidateRating(input.Rating); err != nil {
		return dto.UpdateStatusOutput{}, err
	}
	if err := validateDates(input.StartedDate, input.CompletedDate); err != nil {
		return dto.UpdateStatusOutput{}, err
	}
	if err := endsAfterStart("completed_date", input.StartedDate, input.CompletedDate); err != nil {
		return dto.UpdateStatusOutput{}, err
	}
	if status == domain.StatusDNF {
		out, err := i.MarkDNF(ctx, dto.DNFInput{BookID: input.BookID, Rating: input.Rating, Review: input.Review, DNFDate: input.CompletedDate})
		if err != nil {
			return dto.UpdateStatusOutput{}, err
		}
		return dto.UpdateStatusOutput{
			Session:               out.Session,
			Archived:              true,
			ArchivedSessionID:     out.Session.ID,
			ArchivedSessionNumber: out.Session.SessionNumber,
		}, nil
	}
	cal, err := i.calendar(ctx)
	if err != nil {
		return dto.UpdateStatusOutput{}, err
	}

	var (
		result        dto.UpdateStatusOutput
		current       domain.Session
		book          sessionout.BookRef
		from          = "none"
		ratingChanged bool
	)
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		book, err = i.books.FindBook(ctx, input.BookID)
		if err != nil {
			return err
		}
		active, ok, err := i.sessions().FindActive(ctx, input.BookID)
		if err != nil {
			return apperrors.Internal("find active session", err)
		}

		switch {
		case !ok:
			opening, started := status, dayOr(input.StartedDate, cal.Today())
			if status == domain.StatusRead {
				opening = domain.StatusReading
				started = dayOr(input.StartedDate, dayOr(input.CompletedDate, cal.Today()))
			}
			current, err = i.svc.Create(ctx, input.BookID, opening, started)
			if err != nil {
				return apperrors.Internal("create session", err)
			}
			if status == domain.StatusRead {
				if err := i.complete(ctx, &current, book, dayOr(input.CompletedDate, cal.Today())); err != nil {
					return err
				}
				markArchived(&result, current)
			}
		case active.Status == status:
			current = active
			if status == domain.StatusReading && input.StartedDate != "" {
				current.StartedDate = input.StartedDate
			}
		case domain.IsBackward(active.Status, status):
			from = string(active.Status)
			last, err := i.ledger.Latest(ctx, active.ID)
			if err != nil {
				return apperrors.Internal("read latest progress", err)
			}
			if !domain.RequiresArchiveConfirmation(active.Status, status, last != nil) {
				current = active
				if err := i.svc.Transition(ctx, &current, status, ""); err != nil {
					return apperrors.Internal("update session", err)
				}
				break
			}
			if !input.Confirm {
				return apperrors.Precondition(apperrors.CodeConfirmationRequired,
					"moving session %d from %s back to %s archives its recorded progress; confirm to continue",
					active.Number, active.Status, status)
			}
			if err := i.svc.Archive(ctx, &active); err != nil {
				return apperrors.Internal("archive session", err)
			}
			markArchived(&result, active)
			current, err = i.svc.Create(ctx, input.BookID, status, cal.Today())
			if err != nil {
				return apperrors.Internal("create session", err)
			}
		case status == domain.StatusRead:
			from = string(active.Status)
			current = active
			if err := i.complete(ctx, &current, book, dayOr(input.CompletedDate, cal.Today())); err != nil {
				return err
			}
			markArchived(&result, current)
		default:
			from = string(active.Status)
			current = active
			started := input.StartedDate
			if status == domain.StatusReading && started == "" && current.StartedDate == "" {
				started = cal.Today()
			}
			if err := i.svc.Transition(ctx, &current, status, started); err != nil {
				return apperrors.Internal("update session", err)
			}
		}

		ratingChanged = current.ApplyNotes(input.Rating, input.Review)
		if ratingChanged || input.Review != nil || (current.Status == status && input.StartedDate != "") {
			if err := i.svc.Save(ctx, &current); err != nil {
				return apperrors.Internal("update session", err)
			}
		}
		return nil
	})
	if err != nil {
		return dto.UpdateStatusOutput{}, err
	}

	if from != string(status) {
		i.metrics.RecordStatusTransition(from, string(status))
	}
	if result.Archived {
		i.metrics.RecordSessionArchived(string(status))
		if status == domain.StatusRead {
			i.recordFinished(ctx, current, book)
		}
	}
	if ratingChanged {
		i.syncRating(ctx, current, book)
	}
	i.logger.InfoContext(ctx, "status updated",
		"book", input.BookID,
		"session", current.ID,
		"from", from,
		"to", string(status),
		"archived", result.Archived,
	)
	i.signals.Invalidate(ctx, input.BookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	result.Session = toOutput(current)
	return result, nil
}

// MarkDNF ends the active read-through as did-not-finish. An optional final
// position is written to the ledger before archiving.
func (i *Interactor) MarkDNF(ctx context.Context, input dto.DNFInput) (dto.DNFOutput, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return dto.DNFOutput{}, err
	}
	if err := validateDates(input.DNFDate); err != nil {
		return dto.DNFOutput{}, err
	}
	cal, err := i.calendar(ctx)
	if err != nil {
		return dto.DNFOutput{}, err
	}

	var (
		current       domain.Session
		book          sessionout.BookRef
		last          *dto.ProgressSnapshot
		ratingChanged bool
	)
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		book, err = i.books.FindBook(ctx, input.BookID)
		if err != nil {
			return err
		}
		active, ok, err := i.sessions().FindActive(ctx, input.BookID)
		if err != nil {
			return apperrors.Internal("find active session", err)
		}
		if !ok {
			return apperrors.ErrNoActiveSession
		}
		if active.Status != domain.StatusReading {
			return apperrors.Validation(apperrors.CodeInvalidStatus, "status", "only a book being read can be marked did-not-finish; it is %s", active.Status)
		}
		current = active
		date := dayOr(input.DNFDate, cal.Today())
		if err := endsAfterStart("dnf_date", current.StartedDate, date); err != nil {
			return err
		}

		if input.CurrentPage != nil || input.CurrentPercentage != nil {
			snapshot, err := i.ledger.Record(ctx, sessionout.PositionInput{
				SessionID:         current.ID,
				Date:              date,
				CurrentPage:       input.CurrentPage,
				CurrentPercentage: input.CurrentPercentage,
				Source:            "dnf",
			})
			if err != nil {
				return err
			}
			last = &snapshot
		} else if last, err = i.ledger.Latest(ctx, current.ID); err != nil {
			return apperrors.Internal("read latest progress", err)
		}

		ratingChanged = current.ApplyNotes(input.Rating, input.Review)
		current.MoveTo(domain.StatusDNF)
		current.DNFDate = date
		return apperrors.Internal("archive session", i.svc.Archive(ctx, &current))
	})
	if err != nil {
		return dto.DNFOutput{}, err
	}

	i.metrics.RecordStatusTransition(string(domain.StatusReading), string(domain.StatusDNF))
	i.metrics.RecordSessionArchived(string(domain.StatusDNF))
	i.recordFinished(ctx, current, book)
	if ratingChanged {
		i.syncRating(ctx, current, book)
	}
	i.logger.InfoContext(ctx, "marked did-not-finish", "book", input.BookID, "session", current.ID, "date", current.DNFDate)
	i.signals.Invalidate(ctx, input.BookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return dto.DNFOutput{Session: toOutput(current), LastProgress: last}, nil
}

// StartReread opens a new reading session for a book that has been read
// to the end before. A concurrent caller that loses the race gets
// ErrActiveSessionExists.
func (i *Interactor) StartReread(ctx context.Context, bookID string) (dto.SessionOutput, error) {
	cal, err := i.calendar(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	var session domain.Session
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := i.books.FindBook(ctx, bookID); err != nil {
			return err
		}
		history, err := i.sessions().ListForBook(ctx, bookID)
		if err != nil {
			return apperrors.Internal("list sessions", err)
		}
		if !domain.HasCompletedRead(history) {
			return apperrors.Precondition(apperrors.CodeNoCompletedReads, "no completed reads found for book %s", bookID)
		}
		for _, s := range history {
			if s.Active {
				return apperrors.ErrActiveSessionExists
			}
		}
		session, err = i.svc.Create(ctx, bookID, domain.StatusReading, cal.Today())
		if err != nil {
			return apperrors.Internal("create session", err)
		}
		return i.streak.Rebuild(ctx, "reread")
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	i.metrics.RecordStatusTransition(string(domain.StatusRead), string(domain.StatusReading))
	i.logger.InfoContext(ctx, "re-read started", "book", bookID, "session", session.ID, "number", session.Number)
	i.signals.Invalidate(ctx, bookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return toOutput(session), nil
}

func (i *Interactor) Archive(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	var (
		session   domain.Session
		wasActive bool
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		session, err = i.sessions().Get(ctx, sessionID)
		if err != nil {
			return apperrors.Internal("get session", err)
		}
		wasActive = session.Active
		return apperrors.Internal("archive session", i.svc.Archive(ctx, &session))
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if wasActive {
		i.metrics.RecordSessionArchived(string(session.Status))
		i.signals.Invalidate(ctx, session.BookID, signal.ViewDashboard, signal.ViewBook)
	}
	return toOutput(session), nil
}

// DeleteSession removes a session and, through the store, its ledger
// entries. The streak is rebuilt because history shrank.
func (i *Interactor) DeleteSession(ctx context.Context, sessionID string) error {
	var session domain.Session
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		session, err = i.sessions().Get(ctx, sessionID)
		if err != nil {
			return apperrors.Internal("get session", err)
		}
		if err := i.sessions().Delete(ctx, sessionID); err != nil {
			return apperrors.Internal("delete session", err)
		}
		return i.streak.Rebuild(ctx, "session-delete")
	})
	if err != nil {
		return err
	}
	i.logger.InfoContext(ctx, "session deleted", "book", session.BookID, "session", sessionID, "number", session.Number)
	i.signals.Invalidate(ctx, session.BookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return nil
}

// complete records the synthetic 100% entry when one is missing and the
// book has pages, then archives as read.
func (i *Interactor) complete(ctx context.Context, session *domain.Session, book sessionout.BookRef, completedDate string) error {
	if err := endsAfterStart("completed_date", session.StartedDate, completedDate); err != nil {
		return err
	}
	if book.TotalPages > 0 {
		done, err := i.ledger.HasCompletion(ctx, session.ID)
		if err != nil {
			return apperrors.Internal("check completion entry", err)
		}
		if !done {
			full := 100.0
			if _, err := i.ledger.Record(ctx, sessionout.PositionInput{
				SessionID:         session.ID,
				Date:              completedDate,
				CurrentPercentage: &full,
				Source:            "completion",
			}); err != nil {
				return err
			}
		}
	}
	session.MoveTo(domain.StatusRead)
	session.CompletedDate = completedDate
	if err := i.svc.Archive(ctx, session); err != nil {
		return apperrors.Internal("archive session", err)
	}
	return nil
}

func (i *Interactor) recordFinished(ctx context.Context, session domain.Session, book sessionout.BookRef) {
	if i.journal == nil {
		return
	}
	last, err := i.ledger.Latest(ctx, session.ID)
	if err != nil {
		i.logger.WarnContext(ctx, "journal: read latest progress", "session", session.ID, "err", err)
	}
	path, err := i.journal.RecordFinished(ctx, sessionout.JournalEntry{Session: session, Book: book, LastProgress: last})
	if err != nil {
		i.logger.WarnContext(ctx, "journal note not written", "session", session.ID, "err", err)
		return
	}
	i.logger.DebugContext(ctx, "journal note written", "session", session.ID, "path", path)
}

func (i *Interactor) syncRating(ctx context.Context, session domain.Session, book sessionout.BookRef) {
	if i.ratings == nil || session.Rating == nil {
		return
	}
	i.ratings.SyncRating(ctx, sessionout.RatingUpdate{
		BookID:    book.ID,
		Title:     book.Title,
		Author:    book.Author,
		SessionID: session.ID,
		Rating:    *session.Rating,
		Review:    session.Review,
	})
}

// calendar resolves the reader's zone once for the current operation.
func (i *Interactor) calendar(ctx context.Context) (clock.Calendar, error) {
	zone, err := i.zones.ResolveTimezone(ctx)
	if err != nil {
		return clock.Calendar{}, err
	}
	loc, err := clock.LoadZone(zone)
	if err != nil {
		return clock.Calendar{}, err
	}
	return clock.NewCalendar(i.clock, loc), nil
}

func (i *Interactor) sessions() sessionout.SessionStore {
	return i.QueryInteractor.store
}

func markArchived(out *dto.UpdateStatusOutput, session domain.Session) {
	out.Archived = true
	out.ArchivedSessionID = session.ID
	out.ArchivedSessionNumber = session.Number
}

func validateDates(dates ...string) error {
	for _, date := range dates {
		if date == "" {
			continue
		}
		if _, err := clock.ParseDate(date); err != nil {
			return err
		}
	}
	return nil
}

// endsAfterStart rejects an end date earlier than the session's start.
func endsAfterStart(field, started, end string) error {
	if started == "" || end == "" || end >= started {
		return nil
	}
	return apperrors.Validation(apperrors.CodeInvalidDate, field, "%s is before the session started on %s", end, started)
}

func dayOr(date, fallback string) string {
	if date != "" {
		return date
	}
	return fallback
}
