package in

import (
	"context"

	"readlog/internal/modules/book/dto"
	bookin "readlog/internal/modules/book/port/in"
)

type CLIHandler struct {
	usecase bookin.Usecase
}

func NewCLIHandler(usecase bookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.AddBookInput) (dto.AddBookOutput, error) {
	return h.usecase.AddBook(ctx, input)
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateBookInput) (dto.BookOutput, error) {
	return h.usecase.UpdateBook(ctx, input)
}

func (h CLIHandler) Show(ctx context.Context, bookID string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, bookID)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) Delete(ctx context.Context, bookID string) error {
	return h.usecase.DeleteBook(ctx, bookID)
}
