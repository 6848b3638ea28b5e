package out

import (
	"context"

	bookin "readlog/internal/modules/book/port/in"
	progressout "readlog/internal/modules/progress/port/out"
)

type BookLookupAdapter struct {
	books bookin.Queries
}

func NewBookLookupAdapter(books bookin.Queries) progressout.BookLookup {
	return &BookLookupAdapter{books: books}
}

func (a *BookLookupAdapter) TotalPages(ctx context.Context, bookID string) (int, error) {
	book, err := a.books.GetBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return book.TotalPages, nil
}
