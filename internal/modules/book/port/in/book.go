package in

import (
	"context"

	"readlog/internal/modules/book/dto"
)

// Queries is what the ledger and the state machine look books up through.
type Queries interface {
	GetBook(ctx context.Context, bookID string) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
}

type Usecase interface {
	Queries
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.AddBookOutput, error)
	UpdateBook(ctx context.Context, input dto.UpdateBookInput) (dto.BookOutput, error)
	DeleteBook(ctx context.Context, bookID string) error
}
