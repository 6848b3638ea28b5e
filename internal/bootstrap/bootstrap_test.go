package bootstrap_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"readlog/internal/bootstrap"
	bookdto "readlog/internal/modules/book/dto"
	progressdto "readlog/internal/modules/progress/dto"
	sessiondto "readlog/internal/modules/session/dto"
	streakdto "readlog/internal/modules/streak/dto"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/config"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/logger"
)

func newApp(t *testing.T) (*bootstrap.App, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:         dir,
		DBPath:          filepath.Join(dir, "readlog.db"),
		DefaultTimezone: "UTC",
		JournalDir:      filepath.Join(dir, "journal"),
	}
	app, err := bootstrap.New(context.Background(), cfg,
		bootstrap.WithClock(clock.Fixed(time.Date(2026, 4, 12, 15, 0, 0, 0, time.UTC))),
		bootstrap.WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, dir
}

func pagePtr(v int) *int { return &v }
func intPtr(v int) *int  { return &v }

func TestReadThroughEndToEnd(t *testing.T) {
	t.Parallel()
	app, dir := newApp(t)
	ctx := context.Background()

	added, err := app.Books.AddBook(ctx, bookdto.AddBookInput{Title: "Dune", Author: "Frank Herbert", TotalPages: pagePtr(300)})
	require.NoError(t, err)
	require.Equal(t, "to-read", added.SessionStatus)
	bookID := added.Book.ID

	started, err := app.Sessions.UpdateStatus(ctx, sessiondto.UpdateStatusInput{BookID: bookID, Status: "reading", StartedDate: "2026-04-10"})
	require.NoError(t, err)
	sessionID := started.Session.ID
	require.Equal(t, added.SessionID, sessionID)

	for i, day := range []string{"2026-04-10", "2026-04-11", "2026-04-12"} {
		_, err := app.Progress.Append(ctx, progressdto.AppendInput{SessionID: sessionID, CurrentPage: pagePtr(100 + 50*i), ProgressDate: day})
		require.NoError(t, err, day)
	}

	streak, err := app.Streak.GetStreak(ctx, streakdto.UserInput{})
	require.NoError(t, err)
	require.Equal(t, 3, streak.CurrentStreak)
	require.Equal(t, "2026-04-10", streak.StreakStartDate)
	require.Equal(t, 50, streak.TodayPages)

	finished, err := app.Sessions.UpdateStatus(ctx, sessiondto.UpdateStatusInput{BookID: bookID, Status: "read", Rating: intPtr(5)})
	require.NoError(t, err)
	require.True(t, finished.Archived)
	require.Equal(t, "2026-04-12", finished.Session.CompletedDate)

	entries, err := app.Progress.ListForSession(ctx, progressdto.SessionQuery{SessionID: sessionID})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	last := entries[len(entries)-1]
	require.Equal(t, 300, last.CurrentPage)
	require.Equal(t, 100, last.PagesRead)

	_, err = app.Progress.Append(ctx, progressdto.AppendInput{SessionID: sessionID, CurrentPage: pagePtr(10)})
	require.Equal(t, apperrors.CodeSessionArchived, apperrors.CodeOf(err))

	_, err = os.Stat(filepath.Join(dir, "journal", "2026", "04", "2026-04-12-dune-1.md"))
	require.NoError(t, err, "journal note for the finished read-through")

	streak, err = app.Streak.GetStreak(ctx, streakdto.UserInput{})
	require.NoError(t, err)
	require.Equal(t, 150, streak.TodayPages)

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["readlog_progress_entries_total"])
	require.True(t, names["readlog_sessions_archived_total"])
}

func TestConcurrentRereadsCreateOneSession(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	ctx := context.Background()

	added, err := app.Books.AddBook(ctx, bookdto.AddBookInput{Title: "Solaris", TotalPages: pagePtr(204)})
	require.NoError(t, err)
	_, err = app.Sessions.UpdateStatus(ctx, sessiondto.UpdateStatusInput{BookID: added.Book.ID, Status: "read", CompletedDate: "2026-04-01"})
	require.NoError(t, err)

	const racers = 5
	results := make([]error, racers)
	var g errgroup.Group
	for i := 0; i < racers; i++ {
		i := i
		g.Go(func() error {
			_, results[i] = app.Sessions.StartReread(ctx, added.Book.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, errors.Is(err, apperrors.ErrActiveSessionExists), "got %v", err)
		require.True(t, errors.Is(err, apperrors.ErrConflict))
	}
	require.Equal(t, 1, succeeded)

	history, err := app.Sessions.History(ctx, added.Book.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "reading", history[1].Status)
}

func TestDeleteBookCascadesAndRebuildsStreak(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	ctx := context.Background()

	added, err := app.Books.AddBook(ctx, bookdto.AddBookInput{Title: "Kindred", TotalPages: pagePtr(264)})
	require.NoError(t, err)
	started, err := app.Sessions.UpdateStatus(ctx, sessiondto.UpdateStatusInput{BookID: added.Book.ID, Status: "reading"})
	require.NoError(t, err)
	_, err = app.Progress.Append(ctx, progressdto.AppendInput{SessionID: started.Session.ID, CurrentPage: pagePtr(40)})
	require.NoError(t, err)

	streak, err := app.Streak.GetStreak(ctx, streakdto.UserInput{})
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentStreak)

	require.NoError(t, app.Books.DeleteBook(ctx, added.Book.ID))
	streak, err = app.Streak.GetStreak(ctx, streakdto.UserInput{})
	require.NoError(t, err)
	require.Zero(t, streak.CurrentStreak)
	require.Zero(t, streak.TotalDaysActive)

	_, err = app.Sessions.GetSession(ctx, started.Session.ID)
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}
