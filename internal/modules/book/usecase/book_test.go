package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"readlog/internal/modules/book/domain"
	"readlog/internal/modules/book/dto"
	bookin "readlog/internal/modules/book/port/in"
	bookout "readlog/internal/modules/book/port/out"
	"readlog/internal/modules/book/service"
	"readlog/internal/modules/book/usecase"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/logger"
	"readlog/internal/platform/signal"
)

type memBooks struct {
	rows map[string]domain.Book
}

func (m *memBooks) Insert(_ context.Context, b domain.Book) error {
	m.rows[b.ID] = b
	return nil
}

func (m *memBooks) Update(_ context.Context, b domain.Book) error {
	if _, ok := m.rows[b.ID]; !ok {
		return apperrors.NotFound("book", b.ID)
	}
	m.rows[b.ID] = b
	return nil
}

func (m *memBooks) Get(_ context.Context, id string) (domain.Book, error) {
	b, ok := m.rows[id]
	if !ok {
		return domain.Book{}, apperrors.NotFound("book", id)
	}
	return b, nil
}

func (m *memBooks) List(context.Context) ([]domain.Book, error) {
	out := []domain.Book{}
	for _, b := range m.rows {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBooks) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return apperrors.NotFound("book", id)
	}
	delete(m.rows, id)
	return nil
}

type fixedPages struct {
	count int
	paths []string
}

func (f *fixedPages) CountPages(_ context.Context, path string) (int, error) {
	f.paths = append(f.paths, path)
	return f.count, nil
}

type fakeEnroller struct {
	calls []string
	err   error
}

func (f *fakeEnroller) Enroll(_ context.Context, bookID, status string) (bookout.Enrollment, error) {
	if f.err != nil {
		return bookout.Enrollment{}, f.err
	}
	f.calls = append(f.calls, bookID)
	if status == "" {
		status = "to-read"
	}
	return bookout.Enrollment{SessionID: "sess-" + bookID, Status: status}, nil
}

type recordingStreak struct{ reasons []string }

func (r *recordingStreak) Rebuild(_ context.Context, reason string) error {
	r.reasons = append(r.reasons, reason)
	return nil
}

type fixedID string

func (f fixedID) New() string { return string(f) }

func newInteractor(store *memBooks, pages *fixedPages, enroller *fakeEnroller, streak *recordingStreak, signals *signal.Recorder) bookin.Usecase {
	clk := clock.Fixed(time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC))
	return usecase.NewInteractor(usecase.Deps{
		Service:  service.NewBookService(clk, fixedID("book-1"), store, pages),
		Store:    store,
		Enroller: enroller,
		Streak:   streak,
		Signals:  signals,
		Logger:   logger.Discard(),
	})
}

func intPtr(v int) *int { return &v }

func TestAddBookCountsPDFPagesAndEnrolls(t *testing.T) {
	t.Parallel()
	store := &memBooks{rows: map[string]domain.Book{}}
	pages := &fixedPages{count: 212}
	enroller := &fakeEnroller{}
	signals := &signal.Recorder{}
	uc := newInteractor(store, pages, enroller, &recordingStreak{}, signals)

	out, err := uc.AddBook(context.Background(), dto.AddBookInput{FilePath: "/library/The Dispossessed.pdf", Author: " Ursula K. Le Guin "})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if out.Book.Title != "The Dispossessed" || out.Book.Slug != "the-dispossessed" || out.Book.TotalPages != 212 {
		t.Fatalf("unexpected book %+v", out.Book)
	}
	if out.Book.Author != "Ursula K. Le Guin" {
		t.Fatalf("author must be trimmed, got %q", out.Book.Author)
	}
	if out.SessionID != "sess-book-1" || out.SessionStatus != "to-read" {
		t.Fatalf("expected first session, got %+v", out)
	}
	if len(pages.paths) != 1 || len(enroller.calls) != 1 {
		t.Fatalf("expected one page count and one enrollment")
	}
	if !signals.Has(signal.ViewDashboard) {
		t.Fatalf("dashboard must be invalidated")
	}
}

func TestAddBookExplicitPagesSkipCounting(t *testing.T) {
	t.Parallel()
	store := &memBooks{rows: map[string]domain.Book{}}
	pages := &fixedPages{count: 999}
	uc := newInteractor(store, pages, &fakeEnroller{}, &recordingStreak{}, &signal.Recorder{})

	out, err := uc.AddBook(context.Background(), dto.AddBookInput{Title: "Dune", FilePath: "/library/dune.pdf", TotalPages: intPtr(412), Status: "read-next"})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if out.Book.TotalPages != 412 || len(pages.paths) != 0 {
		t.Fatalf("explicit page count wins, got %d after %d counts", out.Book.TotalPages, len(pages.paths))
	}
	if out.SessionStatus != "read-next" {
		t.Fatalf("unexpected status %q", out.SessionStatus)
	}
}

func TestAddBookRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	store := &memBooks{rows: map[string]domain.Book{}}
	uc := newInteractor(store, &fixedPages{}, &fakeEnroller{}, &recordingStreak{}, &signal.Recorder{})

	if _, err := uc.AddBook(context.Background(), dto.AddBookInput{}); apperrors.CodeOf(err) != apperrors.CodeInvalidBook {
		t.Fatalf("expected invalid book, got %v", err)
	}
	if _, err := uc.AddBook(context.Background(), dto.AddBookInput{Title: "x", TotalPages: intPtr(-3)}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatalf("nothing may be stored")
	}
}

func TestUpdateAndDeleteBook(t *testing.T) {
	t.Parallel()
	store := &memBooks{rows: map[string]domain.Book{
		"b1": {ID: "b1", Title: "Dune", Slug: "dune", TotalPages: 400},
	}}
	streak := &recordingStreak{}
	uc := newInteractor(store, &fixedPages{}, &fakeEnroller{}, streak, &signal.Recorder{})
	ctx := context.Background()

	title := "Dune (40th anniversary)"
	out, err := uc.UpdateBook(ctx, dto.UpdateBookInput{BookID: "b1", Title: &title, TotalPages: intPtr(412)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Slug != "dune-40th-anniversary" || out.TotalPages != 412 {
		t.Fatalf("unexpected update %+v", out)
	}
	if _, err := uc.UpdateBook(ctx, dto.UpdateBookInput{BookID: "nope"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := uc.DeleteBook(ctx, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.GetBook(ctx, "b1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if len(streak.reasons) != 1 || streak.reasons[0] != "book-delete" {
		t.Fatalf("delete must rebuild the streak, got %v", streak.reasons)
	}
}
