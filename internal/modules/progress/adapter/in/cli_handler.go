package in

import (
	"context"

	"readlog/internal/modules/progress/dto"
	progressin "readlog/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Log(ctx context.Context, input dto.AppendInput) (dto.EntryOutput, error) {
	return h.usecase.Append(ctx, input)
}

func (h CLIHandler) Edit(ctx context.Context, input dto.EditInput) (dto.EntryOutput, error) {
	return h.usecase.Edit(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, entryID string) error {
	return h.usecase.Delete(ctx, entryID)
}

func (h CLIHandler) List(ctx context.Context, sessionID string) ([]dto.EntryOutput, error) {
	return h.usecase.ListForSession(ctx, dto.SessionQuery{SessionID: sessionID})
}

func (h CLIHandler) Average(ctx context.Context, since string) (dto.AverageOutput, error) {
	return h.usecase.AveragePagesPerDay(ctx, dto.AverageInput{Since: since})
}

func (h CLIHandler) Total(ctx context.Context, start, end string) (int, error) {
	return h.usecase.TotalPagesReadInRange(ctx, dto.RangeInput{Start: start, End: end})
}
