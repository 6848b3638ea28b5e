package out

import (
	"context"
	"time"

	"readlog/internal/modules/streak/domain"
)

type StreakStore interface {
	// Find reports false when the user has no row yet.
	Find(ctx context.Context, user domain.UserID) (domain.Streak, bool, error)
	GetOrCreate(ctx context.Context, initial domain.Streak) (domain.Streak, error)
	Save(ctx context.Context, streak domain.Streak) error
}

// ActivityReader is the streak engine's view of the progress ledger.
type ActivityReader interface {
	AllActivity(ctx context.Context) ([]domain.Activity, error)
	// PagesReadBetween sums entries whose stored day lies in [start, end).
	PagesReadBetween(ctx context.Context, start, end time.Time) (int, error)
}
