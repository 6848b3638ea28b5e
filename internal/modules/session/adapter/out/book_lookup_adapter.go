package out

import (
	"context"

	bookin "readlog/internal/modules/book/port/in"
	sessionout "readlog/internal/modules/session/port/out"
)

type BookLookupAdapter struct {
	books bookin.Queries
}

func NewBookLookupAdapter(books bookin.Queries) sessionout.BookLookup {
	return &BookLookupAdapter{books: books}
}

func (a *BookLookupAdapter) FindBook(ctx context.Context, bookID string) (sessionout.BookRef, error) {
	book, err := a.books.GetBook(ctx, bookID)
	if err != nil {
		return sessionout.BookRef{}, err
	}
	return sessionout.BookRef{ID: book.ID, Title: book.Title, Author: book.Author, TotalPages: book.TotalPages}, nil
}
