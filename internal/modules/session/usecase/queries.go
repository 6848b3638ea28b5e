package usecase

import (
	"context"

	"readlog/internal/modules/session/domain"
	"readlog/internal/modules/session/dto"
	sessionin "readlog/internal/modules/session/port/in"
	sessionout "readlog/internal/modules/session/port/out"
	apperrors "readlog/internal/platform/errors"
)

type QueryInteractor struct {
	store sessionout.SessionStore
}

func NewQueryInteractor(store sessionout.SessionStore) sessionin.Queries {
	return &QueryInteractor{store: store}
}

func (q *QueryInteractor) GetSession(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	session, err := q.store.Get(ctx, sessionID)
	if err != nil {
		return dto.SessionOutput{}, apperrors.Internal("get session", err)
	}
	return toOutput(session), nil
}

func (q *QueryInteractor) GetActive(ctx context.Context, bookID string) (dto.SessionOutput, error) {
	session, ok, err := q.store.FindActive(ctx, bookID)
	if err != nil {
		return dto.SessionOutput{}, apperrors.Internal("find active session", err)
	}
	if !ok {
		return dto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return toOutput(session), nil
}

func (q *QueryInteractor) History(ctx context.Context, bookID string) ([]dto.SessionOutput, error) {
	sessions, err := q.store.ListForBook(ctx, bookID)
	if err != nil {
		return nil, apperrors.Internal("list sessions", err)
	}
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out, nil
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:            s.ID,
		BookID:        s.BookID,
		SessionNumber: s.Number,
		Status:        string(s.Status),
		StartedDate:   s.StartedDate,
		CompletedDate: s.CompletedDate,
		DNFDate:       s.DNFDate,
		Rating:        s.Rating,
		Review:        s.Review,
		IsActive:      s.Active,
		ReadNextOrder: s.ReadNextOrder,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
