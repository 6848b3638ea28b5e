package out

import (
	"context"
	"time"

	progressin "readlog/internal/modules/progress/port/in"
	"readlog/internal/modules/streak/domain"
	streakout "readlog/internal/modules/streak/port/out"
)

// LedgerActivityAdapter reads streak inputs through the progress module's
// read side.
type LedgerActivityAdapter struct {
	ledger progressin.Queries
}

func NewLedgerActivityAdapter(ledger progressin.Queries) streakout.ActivityReader {
	return &LedgerActivityAdapter{ledger: ledger}
}

func (a *LedgerActivityAdapter) AllActivity(ctx context.Context) ([]domain.Activity, error) {
	rows, err := a.ledger.AllActivity(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Activity{At: row.At, PagesRead: row.PagesRead})
	}
	return out, nil
}

func (a *LedgerActivityAdapter) PagesReadBetween(ctx context.Context, start, end time.Time) (int, error) {
	return a.ledger.PagesReadBetween(ctx, start, end)
}
