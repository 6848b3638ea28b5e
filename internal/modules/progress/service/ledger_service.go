package service

import (
	"context"
	"fmt"

	"readlog/internal/modules/progress/domain"
	progressout "readlog/internal/modules/progress/port/out"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/id"
)

// LedgerService owns the ordering rules of a session's entries. Callers
// are expected to hold a transaction around each method.
type LedgerService struct {
	clock clock.Clock
	idGen id.Generator
	store progressout.EntryStore
}

func NewLedgerService(clock clock.Clock, idGen id.Generator, store progressout.EntryStore) *LedgerService {
	return &LedgerService{clock: clock, idGen: idGen, store: store}
}

func (s *LedgerService) Append(ctx context.Context, cal clock.Calendar, session progressout.SessionRef, pos domain.Position, date, notes string) (domain.Entry, error) {
	at, err := cal.StartOfDay(date)
	if err != nil {
		return domain.Entry{}, err
	}
	entry := domain.Entry{
		ID:                s.idGen.New(),
		BookID:            session.BookID,
		SessionID:         session.ID,
		CurrentPage:       pos.Page,
		CurrentPercentage: pos.Percentage,
		ProgressDate:      at,
		Notes:             notes,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.place(ctx, cal, &entry); err != nil {
		return domain.Entry{}, err
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return domain.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return entry, nil
}

// Edit applies a patch and recomputes the entry's own pagesRead. Siblings
// keep their stored deltas.
func (s *LedgerService) Edit(ctx context.Context, cal clock.Calendar, entry domain.Entry, pos *domain.Position, date, notes *string) (domain.Entry, error) {
	if pos != nil {
		entry.CurrentPage = pos.Page
		entry.CurrentPercentage = pos.Percentage
	}
	if date != nil {
		at, err := cal.StartOfDay(*date)
		if err != nil {
			return domain.Entry{}, err
		}
		entry.ProgressDate = at
	}
	if notes != nil {
		entry.Notes = *notes
	}
	if err := s.place(ctx, cal, &entry); err != nil {
		return domain.Entry{}, err
	}
	if err := s.store.Update(ctx, entry); err != nil {
		return domain.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

func (s *LedgerService) Delete(ctx context.Context, entryID string) error {
	if err := s.store.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *LedgerService) place(ctx context.Context, cal clock.Calendar, entry *domain.Entry) error {
	siblings, err := s.store.ListForSession(ctx, entry.SessionID)
	if err != nil {
		return fmt.Errorf("list session entries: %w", err)
	}
	prev, next := domain.Neighbors(siblings, *entry)
	if err := domain.CheckOrder(prev, next, entry.CurrentPage, cal.Location()); err != nil {
		return err
	}
	entry.PagesRead = domain.PagesRead(prev, entry.CurrentPage)
	return nil
}
