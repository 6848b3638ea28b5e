package out

import (
	"context"

	progressdto "readlog/internal/modules/progress/dto"
	progressin "readlog/internal/modules/progress/port/in"
	"readlog/internal/modules/session/dto"
	sessionout "readlog/internal/modules/session/port/out"
)

type ProgressLedgerAdapter struct {
	ledger progressin.Usecase
}

func NewProgressLedgerAdapter(ledger progressin.Usecase) sessionout.ProgressLedger {
	return &ProgressLedgerAdapter{ledger: ledger}
}

func (a *ProgressLedgerAdapter) Latest(ctx context.Context, sessionID string) (*dto.ProgressSnapshot, error) {
	entry, ok, err := a.ledger.Latest(ctx, progressdto.SessionQuery{SessionID: sessionID})
	if err != nil || !ok {
		return nil, err
	}
	snapshot := toSnapshot(entry)
	return &snapshot, nil
}

func (a *ProgressLedgerAdapter) HasCompletion(ctx context.Context, sessionID string) (bool, error) {
	entries, err := a.ledger.ListForSession(ctx, progressdto.SessionQuery{SessionID: sessionID})
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.CurrentPercentage >= 100 {
			return true, nil
		}
	}
	return false, nil
}

func (a *ProgressLedgerAdapter) Record(ctx context.Context, input sessionout.PositionInput) (dto.ProgressSnapshot, error) {
	entry, err := a.ledger.Append(ctx, progressdto.AppendInput{
		SessionID:         input.SessionID,
		CurrentPage:       input.CurrentPage,
		CurrentPercentage: input.CurrentPercentage,
		ProgressDate:      input.Date,
		Source:            input.Source,
	})
	if err != nil {
		return dto.ProgressSnapshot{}, err
	}
	return toSnapshot(entry), nil
}

func toSnapshot(entry progressdto.EntryOutput) dto.ProgressSnapshot {
	return dto.ProgressSnapshot{
		EntryID:           entry.ID,
		CurrentPage:       entry.CurrentPage,
		CurrentPercentage: entry.CurrentPercentage,
		ProgressDate:      entry.ProgressDate,
	}
}
