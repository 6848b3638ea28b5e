package in

import (
	"context"

	"readlog/internal/modules/session/dto"
)

// Queries is the read side, safe to hand to modules built before the
// state machine.
type Queries interface {
	GetSession(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	GetActive(ctx context.Context, bookID string) (dto.SessionOutput, error)
	History(ctx context.Context, bookID string) ([]dto.SessionOutput, error)
}

type Usecase interface {
	Queries
	Enroll(ctx context.Context, input dto.EnrollInput) (dto.SessionOutput, error)
	UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.UpdateStatusOutput, error)
	MarkDNF(ctx context.Context, input dto.DNFInput) (dto.DNFOutput, error)
	StartReread(ctx context.Context, bookID string) (dto.SessionOutput, error)
	Archive(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
