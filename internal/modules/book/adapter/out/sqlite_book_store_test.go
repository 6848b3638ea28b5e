package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bookout "readlog/internal/modules/book/adapter/out"
	"readlog/internal/modules/book/domain"
	"readlog/internal/platform/database"
	apperrors "readlog/internal/platform/errors"
)

func TestSQLiteBookStoreLifecycle(t *testing.T) {
	t.Parallel()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "readlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := bookout.NewSQLiteBookStore(db)
	ctx := context.Background()

	added := time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)
	dune := domain.Book{ID: "b1", Title: "dune", Slug: "dune", Author: "Frank Herbert", TotalPages: 412, AddedAt: added}
	anathem := domain.Book{ID: "b2", Title: "Anathem", Slug: "anathem", AddedAt: added}
	require.NoError(t, store.Insert(ctx, dune))
	require.NoError(t, store.Insert(ctx, anathem))

	err = store.Insert(ctx, dune)
	require.True(t, errors.Is(err, apperrors.ErrConflict), "got %v", err)

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, dune, got)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b2", "b1"}, []string{listed[0].ID, listed[1].ID})

	dune.TotalPages = 0
	require.NoError(t, store.Update(ctx, dune))
	got, err = store.Get(ctx, "b1")
	require.NoError(t, err)
	require.Zero(t, got.TotalPages)

	_, err = db.Exec(`INSERT INTO reading_sessions (id, book_id, session_number, status, created_at, updated_at) VALUES ('s1', 'b1', 1, 'reading', '', '')`)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "b1"))
	var sessions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM reading_sessions`).Scan(&sessions))
	require.Zero(t, sessions, "sessions cascade with their book")

	require.True(t, errors.Is(store.Delete(ctx, "b1"), apperrors.ErrNotFound))
	_, err = store.Get(ctx, "b1")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestPDFPageCounterRejectsNonPDF(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := bookout.NewPDFPageCounter().CountPages(context.Background(), path)
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidBook, apperrors.CodeOf(err))

	_, err = bookout.NewPDFPageCounter().CountPages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
