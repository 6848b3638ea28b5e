package service

import (
	"context"
	"strings"

	"readlog/internal/modules/book/domain"
	bookout "readlog/internal/modules/book/port/out"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/id"
	"readlog/internal/platform/slug"
)

type BookService struct {
	clock clock.Clock
	idGen id.Generator
	store bookout.BookStore
	pages bookout.PageCounter
}

func NewBookService(clock clock.Clock, idGen id.Generator, store bookout.BookStore, pages bookout.PageCounter) *BookService {
	return &BookService{clock: clock, idGen: idGen, store: store, pages: pages}
}

// Add stores a new book. A PDF file fills in the title and page count
// when they are not given.
func (s *BookService) Add(ctx context.Context, title, author string, totalPages *int, filePath string) (domain.Book, error) {
	filePath = strings.TrimSpace(filePath)
	title = strings.TrimSpace(title)
	if title == "" && filePath != "" {
		title = domain.TitleFromPath(filePath)
	}
	book := domain.Book{
		ID:       s.idGen.New(),
		Title:    title,
		Slug:     slug.Make(title),
		Author:   strings.TrimSpace(author),
		FilePath: filePath,
		AddedAt:  s.clock.Now(),
	}
	switch {
	case totalPages != nil:
		book.TotalPages = *totalPages
	case filePath != "" && domain.IsPDF(filePath) && s.pages != nil:
		count, err := s.pages.CountPages(ctx, filePath)
		if err != nil {
			return domain.Book{}, err
		}
		book.TotalPages = count
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Insert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, bookID string, title, author *string, totalPages *int) (domain.Book, error) {
	book, err := s.store.Get(ctx, bookID)
	if err != nil {
		return domain.Book{}, err
	}
	if title != nil {
		book.Title = strings.TrimSpace(*title)
		book.Slug = slug.Make(book.Title)
	}
	if author != nil {
		book.Author = strings.TrimSpace(*author)
	}
	if totalPages != nil {
		book.TotalPages = *totalPages
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Update(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}
