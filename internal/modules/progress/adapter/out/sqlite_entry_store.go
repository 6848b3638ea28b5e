package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"readlog/internal/modules/progress/domain"
	progressout "readlog/internal/modules/progress/port/out"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/tx"
)

// createdLayout is fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteEntryStore struct {
	db *sql.DB
}

func NewSQLiteEntryStore(db *sql.DB) progressout.EntryStore {
	return &SQLiteEntryStore{db: db}
}

const entryColumns = `id, book_id, session_id, current_page, current_percentage, progress_date, notes, pages_read, created_at`

func (s *SQLiteEntryStore) Insert(ctx context.Context, entry domain.Entry) error {
	const stmt = `INSERT INTO progress_logs (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		entry.ID,
		entry.BookID,
		entry.SessionID,
		entry.CurrentPage,
		entry.CurrentPercentage,
		entry.ProgressDate.Unix(),
		entry.Notes,
		entry.PagesRead,
		entry.CreatedAt.UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("insert progress log: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Update(ctx context.Context, entry domain.Entry) error {
	const stmt = `
UPDATE progress_logs SET
  current_page = ?,
  current_percentage = ?,
  progress_date = ?,
  notes = ?,
  pages_read = ?
WHERE id = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		entry.CurrentPage,
		entry.CurrentPercentage,
		entry.ProgressDate.Unix(),
		entry.Notes,
		entry.PagesRead,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update progress log: %w", err)
	}
	return requireRow(res, entry.ID)
}

func (s *SQLiteEntryStore) Delete(ctx context.Context, entryID string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM progress_logs WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("delete progress log: %w", err)
	}
	return requireRow(res, entryID)
}

func (s *SQLiteEntryStore) Get(ctx context.Context, entryID string) (domain.Entry, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+entryColumns+` FROM progress_logs WHERE id = ?`, entryID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, apperrors.NotFound("progress entry", entryID)
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get progress log: %w", err)
	}
	return entry, nil
}

func (s *SQLiteEntryStore) ListForSession(ctx context.Context, sessionID string) ([]domain.Entry, error) {
	return s.list(ctx, `SELECT `+entryColumns+` FROM progress_logs WHERE session_id = ? ORDER BY progress_date, created_at, id`, sessionID)
}

func (s *SQLiteEntryStore) ListAll(ctx context.Context) ([]domain.Entry, error) {
	return s.list(ctx, `SELECT `+entryColumns+` FROM progress_logs ORDER BY progress_date, created_at, id`)
}

func (s *SQLiteEntryStore) SumPagesRead(ctx context.Context, start, end time.Time) (int, error) {
	var total int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(pages_read), 0) FROM progress_logs WHERE progress_date >= ? AND progress_date < ?`,
		start.Unix(), end.Unix(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum pages read: %w", err)
	}
	return total, nil
}

func (s *SQLiteEntryStore) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress logs: %w", err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress log: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress logs: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		entry     domain.Entry
		date      int64
		createdAt string
	)
	err := row.Scan(
		&entry.ID,
		&entry.BookID,
		&entry.SessionID,
		&entry.CurrentPage,
		&entry.CurrentPercentage,
		&date,
		&entry.Notes,
		&entry.PagesRead,
		&createdAt,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.ProgressDate = time.Unix(date, 0).UTC()
	if parsed, err := time.Parse(createdLayout, createdAt); err == nil {
		entry.CreatedAt = parsed
	}
	return entry, nil
}

func requireRow(res sql.Result, entryID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("progress entry", entryID)
	}
	return nil
}
