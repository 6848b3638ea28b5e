package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"readlog/internal/modules/book/domain"
	bookout "readlog/internal/modules/book/port/out"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/tx"
)

const addedLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteBookStore struct {
	db *sql.DB
}

func NewSQLiteBookStore(db *sql.DB) bookout.BookStore {
	return &SQLiteBookStore{db: db}
}

const bookColumns = `id, title, slug, author, total_pages, file_path, added_at`

func (s *SQLiteBookStore) Insert(ctx context.Context, book domain.Book) error {
	const stmt = `INSERT INTO books (` + bookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		book.ID,
		book.Title,
		book.Slug,
		book.Author,
		book.TotalPages,
		book.FilePath,
		book.AddedAt.UTC().Format(addedLayout),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return apperrors.Conflict(apperrors.CodeDuplicate, "book %s already exists", book.ID)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) Update(ctx context.Context, book domain.Book) error {
	const stmt = `
UPDATE books SET
  title = ?,
  slug = ?,
  author = ?,
  total_pages = ?
WHERE id = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt, book.Title, book.Slug, book.Author, book.TotalPages, book.ID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return requireRow(res, book.ID)
}

func (s *SQLiteBookStore) Get(ctx context.Context, bookID string) (domain.Book, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, bookID)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, apperrors.NotFound("book", bookID)
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

func (s *SQLiteBookStore) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title COLLATE NOCASE, added_at`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	out := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return out, nil
}

func (s *SQLiteBookStore) Delete(ctx context.Context, bookID string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireRow(res, bookID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (domain.Book, error) {
	var (
		book    domain.Book
		addedAt string
	)
	if err := row.Scan(&book.ID, &book.Title, &book.Slug, &book.Author, &book.TotalPages, &book.FilePath, &addedAt); err != nil {
		return domain.Book{}, err
	}
	book.AddedAt, _ = time.Parse(addedLayout, addedAt)
	return book, nil
}

func requireRow(res sql.Result, bookID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("book", bookID)
	}
	return nil
}
