package out

import (
	"context"

	"readlog/internal/modules/book/domain"
)

type BookStore interface {
	Insert(ctx context.Context, book domain.Book) error
	Update(ctx context.Context, book domain.Book) error
	Get(ctx context.Context, bookID string) (domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	// Delete cascades to the book's sessions and progress logs.
	Delete(ctx context.Context, bookID string) error
}

type PageCounter interface {
	CountPages(ctx context.Context, path string) (int, error)
}

type Enrollment struct {
	SessionID string
	Status    string
}

// Enroller opens the first reading session of a new book.
type Enroller interface {
	Enroll(ctx context.Context, bookID, status string) (Enrollment, error)
}

type StreakRebuilder interface {
	Rebuild(ctx context.Context, reason string) error
}
