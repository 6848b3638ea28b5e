package usecase

import (
	"context"
	"log/slog"

	"readlog/internal/modules/book/domain"
	"readlog/internal/modules/book/dto"
	bookin "readlog/internal/modules/book/port/in"
	bookout "readlog/internal/modules/book/port/out"
	"readlog/internal/modules/book/service"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/signal"
	"readlog/internal/platform/tx"
)

type QueryInteractor struct {
	store bookout.BookStore
}

func NewQueryInteractor(store bookout.BookStore) bookin.Queries {
	return &QueryInteractor{store: store}
}

func (q *QueryInteractor) GetBook(ctx context.Context, bookID string) (dto.BookOutput, error) {
	book, err := q.store.Get(ctx, bookID)
	if err != nil {
		return dto.BookOutput{}, apperrors.Internal("get book", err)
	}
	return toOutput(book), nil
}

func (q *QueryInteractor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := q.store.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("list books", err)
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, b := range books {
		out = append(out, toOutput(b))
	}
	return out, nil
}

type Deps struct {
	Service  *service.BookService
	Store    bookout.BookStore
	Enroller bookout.Enroller
	Streak   bookout.StreakRebuilder
	Tx       tx.Manager
	Signals  signal.Invalidator
	Logger   *slog.Logger
}

type Interactor struct {
	*QueryInteractor
	svc      *service.BookService
	enroller bookout.Enroller
	streak   bookout.StreakRebuilder
	tx       tx.Manager
	signals  signal.Invalidator
	logger   *slog.Logger
}

func NewInteractor(deps Deps) bookin.Usecase {
	if deps.Tx == nil {
		deps.Tx = tx.NoopManager{}
	}
	if deps.Signals == nil {
		deps.Signals = signal.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Interactor{
		QueryInteractor: &QueryInteractor{store: deps.Store},
		svc:             deps.Service,
		enroller:        deps.Enroller,
		streak:          deps.Streak,
		tx:              deps.Tx,
		signals:         deps.Signals,
		logger:          deps.Logger,
	}
}

// AddBook stores the book and opens its first session in one transaction.
func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.AddBookOutput, error) {
	var (
		book       domain.Book
		enrollment bookout.Enrollment
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		book, err = i.svc.Add(ctx, input.Title, input.Author, input.TotalPages, input.FilePath)
		if err != nil {
			return apperrors.Internal("add book", err)
		}
		enrollment, err = i.enroller.Enroll(ctx, book.ID, input.Status)
		return err
	})
	if err != nil {
		return dto.AddBookOutput{}, err
	}
	i.logger.InfoContext(ctx, "book added",
		"book", book.ID,
		"title", book.Title,
		"pages", book.TotalPages,
		"status", enrollment.Status,
	)
	i.signals.Invalidate(ctx, book.ID, signal.ViewDashboard)
	return dto.AddBookOutput{Book: toOutput(book), SessionID: enrollment.SessionID, SessionStatus: enrollment.Status}, nil
}

// UpdateBook changes catalog fields. Existing ledger entries keep the
// pages and percentages they were written with.
func (i *Interactor) UpdateBook(ctx context.Context, input dto.UpdateBookInput) (dto.BookOutput, error) {
	var book domain.Book
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		book, err = i.svc.Update(ctx, input.BookID, input.Title, input.Author, input.TotalPages)
		return apperrors.Internal("update book", err)
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	i.signals.Invalidate(ctx, book.ID, signal.ViewDashboard, signal.ViewBook)
	return toOutput(book), nil
}

// DeleteBook removes the book with all of its sessions and progress; the
// streak is rebuilt from what remains.
func (i *Interactor) DeleteBook(ctx context.Context, bookID string) error {
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		if err := i.books().Delete(ctx, bookID); err != nil {
			return apperrors.Internal("delete book", err)
		}
		return i.streak.Rebuild(ctx, "book-delete")
	})
	if err != nil {
		return err
	}
	i.logger.InfoContext(ctx, "book deleted", "book", bookID)
	i.signals.Invalidate(ctx, bookID, signal.ViewDashboard, signal.ViewBook, signal.ViewStats)
	return nil
}

func (i *Interactor) books() bookout.BookStore {
	return i.QueryInteractor.store
}

func toOutput(b domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:         b.ID,
		Title:      b.Title,
		Slug:       b.Slug,
		Author:     b.Author,
		TotalPages: b.TotalPages,
		FilePath:   b.FilePath,
		AddedAt:    b.AddedAt,
	}
}
