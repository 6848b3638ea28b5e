package in

import (
	"context"
	"time"

	"readlog/internal/modules/progress/dto"
)

// Queries is the read side of the ledger. It has no dependency on the
// streak engine, which reads through it.
type Queries interface {
	GetEntry(ctx context.Context, entryID string) (dto.EntryOutput, error)
	Latest(ctx context.Context, query dto.SessionQuery) (dto.EntryOutput, bool, error)
	ListForSession(ctx context.Context, query dto.SessionQuery) ([]dto.EntryOutput, error)
	TotalPagesReadInRange(ctx context.Context, input dto.RangeInput) (int, error)
	AveragePagesPerDay(ctx context.Context, input dto.AverageInput) (dto.AverageOutput, error)
	PagesReadBetween(ctx context.Context, start, end time.Time) (int, error)
	AllActivity(ctx context.Context) ([]dto.ActivityOutput, error)
}

type Usecase interface {
	Queries
	Append(ctx context.Context, input dto.AppendInput) (dto.EntryOutput, error)
	Edit(ctx context.Context, input dto.EditInput) (dto.EntryOutput, error)
	Delete(ctx context.Context, entryID string) error
}
