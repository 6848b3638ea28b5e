package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"readlog/internal/modules/streak/domain"
	streakout "readlog/internal/modules/streak/port/out"
	"readlog/internal/platform/tx"
)

type SQLiteStreakStore struct {
	db *sql.DB
}

func NewSQLiteStreakStore(db *sql.DB) streakout.StreakStore {
	return &SQLiteStreakStore{db: db}
}

const streakColumns = `user_key, current_streak, longest_streak, last_activity_date, streak_start_date, total_days_active, daily_threshold, user_timezone, updated_at`

func (s *SQLiteStreakStore) Find(ctx context.Context, user domain.UserID) (domain.Streak, bool, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+streakColumns+` FROM streaks WHERE user_key = ?`, user.Key())
	streak, err := scanStreak(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Streak{}, false, nil
	}
	if err != nil {
		return domain.Streak{}, false, err
	}
	return streak, true, nil
}

// GetOrCreate inserts initial unless a row exists and returns whatever is
// stored afterwards.
func (s *SQLiteStreakStore) GetOrCreate(ctx context.Context, initial domain.Streak) (domain.Streak, error) {
	const stmt = `
INSERT INTO streaks (` + streakColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_key) DO NOTHING;
`
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, stmt, streakArgs(initial)...); err != nil {
		return domain.Streak{}, fmt.Errorf("insert streak: %w", err)
	}
	streak, ok, err := s.Find(ctx, initial.User)
	if err != nil {
		return domain.Streak{}, err
	}
	if !ok {
		return domain.Streak{}, fmt.Errorf("streak for %s vanished after insert", initial.User)
	}
	return streak, nil
}

func (s *SQLiteStreakStore) Save(ctx context.Context, streak domain.Streak) error {
	const stmt = `
UPDATE streaks SET
  current_streak = ?,
  longest_streak = ?,
  last_activity_date = ?,
  streak_start_date = ?,
  total_days_active = ?,
  daily_threshold = ?,
  user_timezone = ?,
  updated_at = ?
WHERE user_key = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.LastActivityDate,
		streak.StreakStartDate,
		streak.TotalDaysActive,
		streak.DailyThreshold,
		streak.Timezone,
		streak.UpdatedAt.UTC().Format(time.RFC3339Nano),
		streak.User.Key(),
	)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update streak: no row for %s", streak.User)
	}
	return nil
}

func streakArgs(s domain.Streak) []any {
	return []any{
		s.User.Key(),
		s.CurrentStreak,
		s.LongestStreak,
		s.LastActivityDate,
		s.StreakStartDate,
		s.TotalDaysActive,
		s.DailyThreshold,
		s.Timezone,
		s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func scanStreak(row *sql.Row) (domain.Streak, error) {
	var (
		key       string
		streak    domain.Streak
		updatedAt string
	)
	err := row.Scan(
		&key,
		&streak.CurrentStreak,
		&streak.LongestStreak,
		&streak.LastActivityDate,
		&streak.StreakStartDate,
		&streak.TotalDaysActive,
		&streak.DailyThreshold,
		&streak.Timezone,
		&updatedAt,
	)
	if err != nil {
		return domain.Streak{}, err
	}
	streak.User = domain.User(key)
	if parsed, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		streak.UpdatedAt = parsed
	}
	return streak, nil
}
