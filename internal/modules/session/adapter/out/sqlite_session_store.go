package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"readlog/internal/modules/session/domain"
	sessionout "readlog/internal/modules/session/port/out"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/tx"
)

const timestampLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) sessionout.SessionStore {
	return &SQLiteSessionStore{db: db}
}

const sessionColumns = `id, book_id, session_number, status, started_date, completed_date, dnf_date, rating, review, is_active, read_next_order, created_at, updated_at`

func (s *SQLiteSessionStore) Insert(ctx context.Context, session domain.Session) error {
	const stmt = `INSERT INTO reading_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		session.ID,
		session.BookID,
		session.Number,
		string(session.Status),
		session.StartedDate,
		session.CompletedDate,
		session.DNFDate,
		nullableRating(session.Rating),
		session.Review,
		session.Active,
		session.ReadNextOrder,
		session.CreatedAt.UTC().Format(timestampLayout),
		session.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return s.mapConstraint(ctx, err, session)
	}
	return nil
}

func (s *SQLiteSessionStore) Update(ctx context.Context, session domain.Session) error {
	const stmt = `
UPDATE reading_sessions SET
  status = ?,
  started_date = ?,
  completed_date = ?,
  dnf_date = ?,
  rating = ?,
  review = ?,
  is_active = ?,
  read_next_order = ?,
  updated_at = ?
WHERE id = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		string(session.Status),
		session.StartedDate,
		session.CompletedDate,
		session.DNFDate,
		nullableRating(session.Rating),
		session.Review,
		session.Active,
		session.ReadNextOrder,
		session.UpdatedAt.UTC().Format(timestampLayout),
		session.ID,
	)
	if err != nil {
		return s.mapConstraint(ctx, err, session)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("session", session.ID)
	}
	return nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM reading_sessions WHERE id = ?`, sessionID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, apperrors.NotFound("session", sessionID)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *SQLiteSessionStore) FindActive(ctx context.Context, bookID string) (domain.Session, bool, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM reading_sessions WHERE book_id = ? AND is_active = 1`, bookID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("find active session: %w", err)
	}
	return session, true, nil
}

func (s *SQLiteSessionStore) ListForBook(ctx context.Context, bookID string) ([]domain.Session, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT `+sessionColumns+` FROM reading_sessions WHERE book_id = ? ORDER BY session_number`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) MaxReadNextOrder(ctx context.Context) (int, error) {
	var highest int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(MAX(read_next_order), 0) FROM reading_sessions WHERE is_active = 1 AND status = 'read-next'`,
	).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("max read-next order: %w", err)
	}
	return highest, nil
}

// Delete removes the session; its progress logs go with it through the
// foreign key cascade.
func (s *SQLiteSessionStore) Delete(ctx context.Context, sessionID string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM reading_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("session", sessionID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var (
		session   domain.Session
		status    string
		rating    sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&session.ID,
		&session.BookID,
		&session.Number,
		&status,
		&session.StartedDate,
		&session.CompletedDate,
		&session.DNFDate,
		&rating,
		&session.Review,
		&session.Active,
		&session.ReadNextOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	session.Status = domain.Status(status)
	if rating.Valid {
		r := int(rating.Int64)
		session.Rating = &r
	}
	session.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	session.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt)
	return session, nil
}

func nullableRating(rating *int) sql.NullInt64 {
	if rating == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*rating), Valid: true}
}

// mapConstraint turns SQLite constraint failures into domain errors. A
// UNIQUE failure on an active row can come from either the partial index on
// active sessions or (book_id, session_number), so the active row is looked
// up to tell them apart.
func (s *SQLiteSessionStore) mapConstraint(ctx context.Context, err error, session domain.Session) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			if session.Active {
				active, ok, findErr := s.FindActive(ctx, session.BookID)
				if findErr == nil && ok && active.ID != session.ID {
					return &apperrors.Error{
						Kind:    apperrors.ErrConflict,
						Code:    apperrors.CodeActiveSessionExists,
						Ref:     active.ID,
						Message: fmt.Sprintf("book %s already has an active session", session.BookID),
						Err:     err,
					}
				}
			}
			return apperrors.Conflict(apperrors.CodeDuplicate, "session %d already exists for book %s", session.Number, session.BookID)
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperrors.Conflict(apperrors.CodeDuplicate, "session %s already exists", session.ID)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperrors.NotFound("book", session.BookID)
		}
	}
	return fmt.Errorf("write session: %w", err)
}
