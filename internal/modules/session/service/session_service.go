package service

import (
	"context"
	"fmt"

	"readlog/internal/modules/session/domain"
	sessionout "readlog/internal/modules/session/port/out"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	store sessionout.SessionStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store}
}

// Create opens the next session of a book. The store rejects it when the
// book already has an active session.
func (s *SessionService) Create(ctx context.Context, bookID string, status domain.Status, today string) (domain.Session, error) {
	if bookID == "" {
		return domain.Session{}, fmt.Errorf("book id is required")
	}
	history, err := s.store.ListForBook(ctx, bookID)
	if err != nil {
		return domain.Session{}, err
	}
	now := s.clock.Now()
	session := domain.Session{
		ID:        s.idGen.New(),
		BookID:    bookID,
		Number:    domain.NextNumber(history),
		Status:    status,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch status {
	case domain.StatusReading:
		session.StartedDate = today
	case domain.StatusReadNext:
		if session.ReadNextOrder, err = s.nextQueuePosition(ctx); err != nil {
			return domain.Session{}, err
		}
	}
	if err := s.store.Insert(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Transition moves an active session to status in place. An empty
// startedDate keeps the stored one.
func (s *SessionService) Transition(ctx context.Context, session *domain.Session, status domain.Status, startedDate string) error {
	session.MoveTo(status)
	switch status {
	case domain.StatusReading:
		if startedDate != "" {
			session.StartedDate = startedDate
		}
	case domain.StatusReadNext:
		order, err := s.nextQueuePosition(ctx)
		if err != nil {
			return err
		}
		session.ReadNextOrder = order
	}
	return s.Save(ctx, session)
}

// Archive turns the session into history; it is a no-op on history.
func (s *SessionService) Archive(ctx context.Context, session *domain.Session) error {
	if !session.Active {
		return nil
	}
	session.Active = false
	session.ReadNextOrder = 0
	return s.Save(ctx, session)
}

func (s *SessionService) Save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = s.clock.Now()
	return s.store.Update(ctx, *session)
}

func (s *SessionService) nextQueuePosition(ctx context.Context) (int, error) {
	highest, err := s.store.MaxReadNextOrder(ctx)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}
