package out

import (
	"context"

	"readlog/internal/modules/session/domain"
	"readlog/internal/modules/session/dto"
)

type SessionStore interface {
	// Insert reports a second active session for a book as
	// apperrors.ErrActiveSessionExists.
	Insert(ctx context.Context, session domain.Session) error
	Update(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	FindActive(ctx context.Context, bookID string) (domain.Session, bool, error)
	ListForBook(ctx context.Context, bookID string) ([]domain.Session, error)
	MaxReadNextOrder(ctx context.Context) (int, error)
	Delete(ctx context.Context, sessionID string) error
}

type BookRef struct {
	ID         string
	Title      string
	Author     string
	TotalPages int
}

type BookLookup interface {
	FindBook(ctx context.Context, bookID string) (BookRef, error)
}

// PositionInput is a position to record in the ledger; nil fields are
// derived there.
type PositionInput struct {
	SessionID         string
	Date              string
	CurrentPage       *int
	CurrentPercentage *float64
	Source            string
}

type ProgressLedger interface {
	Latest(ctx context.Context, sessionID string) (*dto.ProgressSnapshot, error)
	HasCompletion(ctx context.Context, sessionID string) (bool, error)
	Record(ctx context.Context, input PositionInput) (dto.ProgressSnapshot, error)
}

type ZoneResolver interface {
	ResolveTimezone(ctx context.Context) (string, error)
}

type StreakRebuilder interface {
	Rebuild(ctx context.Context, reason string) error
}

type RatingUpdate struct {
	BookID    string
	Title     string
	Author    string
	SessionID string
	Rating    int
	Review    string
}

// RatingSync pushes ratings to an external catalog. Implementations must
// not block the caller on network I/O.
type RatingSync interface {
	SyncRating(ctx context.Context, update RatingUpdate)
}

type JournalEntry struct {
	Session      domain.Session
	Book         BookRef
	LastProgress *dto.ProgressSnapshot
}

// Journal keeps a human-readable note per finished read-through.
type Journal interface {
	RecordFinished(ctx context.Context, entry JournalEntry) (string, error)
}
