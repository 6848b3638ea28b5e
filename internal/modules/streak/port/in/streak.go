package in

import (
	"context"

	"readlog/internal/modules/streak/dto"
)

// Queries resolves a reader's timezone without touching streak state. It is
// built before the ledger so the ledger can bucket days with it.
type Queries interface {
	ResolveTimezone(ctx context.Context, input dto.UserInput) (string, error)
}

type Usecase interface {
	Queries
	GetStreak(ctx context.Context, input dto.UserInput) (dto.StreakOutput, error)
	CheckAndReset(ctx context.Context, input dto.UserInput) (dto.StreakOutput, error)
	Rebuild(ctx context.Context, input dto.RebuildInput) (dto.StreakOutput, error)
	NoteActivity(ctx context.Context, input dto.ActivityInput) error
	UpdateThreshold(ctx context.Context, input dto.ThresholdInput) (dto.StreakOutput, error)
	SetTimezone(ctx context.Context, input dto.TimezoneInput) (dto.StreakOutput, error)
}
