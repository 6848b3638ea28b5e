package in

import (
	"context"

	"readlog/internal/modules/session/dto"
	sessionin "readlog/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SetStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.UpdateStatusOutput, error) {
	return h.usecase.UpdateStatus(ctx, input)
}

func (h CLIHandler) DNF(ctx context.Context, input dto.DNFInput) (dto.DNFOutput, error) {
	return h.usecase.MarkDNF(ctx, input)
}

func (h CLIHandler) Reread(ctx context.Context, bookID string) (dto.SessionOutput, error) {
	return h.usecase.StartReread(ctx, bookID)
}

func (h CLIHandler) Active(ctx context.Context, bookID string) (dto.SessionOutput, error) {
	return h.usecase.GetActive(ctx, bookID)
}

func (h CLIHandler) History(ctx context.Context, bookID string) ([]dto.SessionOutput, error) {
	return h.usecase.History(ctx, bookID)
}

func (h CLIHandler) Archive(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Archive(ctx, sessionID)
}

func (h CLIHandler) Delete(ctx context.Context, sessionID string) error {
	return h.usecase.DeleteSession(ctx, sessionID)
}
