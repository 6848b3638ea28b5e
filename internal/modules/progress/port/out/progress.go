package out

import (
	"context"
	"time"

	"readlog/internal/modules/progress/domain"
)

type EntryStore interface {
	Insert(ctx context.Context, entry domain.Entry) error
	Update(ctx context.Context, entry domain.Entry) error
	Delete(ctx context.Context, entryID string) error
	Get(ctx context.Context, entryID string) (domain.Entry, error)
	// ListForSession returns entries in chronological order.
	ListForSession(ctx context.Context, sessionID string) ([]domain.Entry, error)
	// SumPagesRead totals entries whose stored day lies in [start, end).
	SumPagesRead(ctx context.Context, start, end time.Time) (int, error)
	ListAll(ctx context.Context) ([]domain.Entry, error)
}

// SessionRef is what the ledger needs to know about a session.
type SessionRef struct {
	ID     string
	BookID string
	Active bool
}

type SessionLookup interface {
	FindSession(ctx context.Context, sessionID string) (SessionRef, error)
}

type BookLookup interface {
	TotalPages(ctx context.Context, bookID string) (int, error)
}

type ZoneResolver interface {
	ResolveTimezone(ctx context.Context) (string, error)
}

// StreakNotifier keeps the streak engine in step with ledger writes.
type StreakNotifier interface {
	NoteActivity(ctx context.Context, date string) error
	Rebuild(ctx context.Context, reason string) error
}
