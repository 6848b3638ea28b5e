package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"readlog/internal/modules/streak/domain"
	apperrors "readlog/internal/platform/errors"
)

func TestComputeWalksQualifyingDays(t *testing.T) {
	t.Parallel()
	daily := map[string]int{
		"2026-03-01": 30,
		"2026-03-02": 25,
		"2026-03-03": 5, // below threshold breaks the run
		"2026-03-04": 40,
		"2026-03-05": 20,
		"2026-03-06": 21,
	}
	sum := domain.Compute(daily, 20, "2026-03-06")
	require.Equal(t, 3, sum.Current)
	require.Equal(t, 3, sum.Longest)
	require.Equal(t, "2026-03-04", sum.Start)
	require.Equal(t, "2026-03-06", sum.LastActivity)
	require.Equal(t, 5, sum.TotalDaysActive)
}

func TestComputeDropsCurrentWhenLapsed(t *testing.T) {
	t.Parallel()
	daily := map[string]int{"2026-03-01": 10, "2026-03-02": 10}
	sum := domain.Compute(daily, 1, "2026-03-10")
	require.Zero(t, sum.Current)
	require.Equal(t, 2, sum.Longest)
	require.Empty(t, sum.Start)

	sum = domain.Compute(daily, 1, "2026-03-03")
	require.Equal(t, 2, sum.Current, "a run ending yesterday is still alive")
}

func TestComputeIsDeterministic(t *testing.T) {
	t.Parallel()
	daily := map[string]int{"2026-01-05": 12, "2026-01-01": 12, "2026-01-02": 12, "2026-01-04": 12}
	first := domain.Compute(daily, 10, "2026-01-05")
	second := domain.Compute(daily, 10, "2026-01-05")
	require.Equal(t, first, second)
	require.LessOrEqual(t, first.Current, first.Longest)
}

func TestThresholdScenario(t *testing.T) {
	t.Parallel()
	require.True(t, domain.ThresholdMet(25, 20))
	s := domain.Streak{CurrentStreak: 4, LongestStreak: 4, LastActivityDate: "2026-05-01", TotalDaysActive: 4, DailyThreshold: 20}
	require.True(t, s.Extend("2026-05-02", time.Now()))
	require.Equal(t, 5, s.CurrentStreak)
	require.Equal(t, 5, s.LongestStreak)
	require.False(t, s.Extend("2026-05-02", time.Now()), "same day counts once")
	require.Equal(t, 5, s.TotalDaysActive)
}

func TestExtendAfterGapStartsOver(t *testing.T) {
	t.Parallel()
	s := domain.Streak{CurrentStreak: 6, LongestStreak: 9, LastActivityDate: "2026-05-01", DailyThreshold: 1}
	s.Extend("2026-05-04", time.Now())
	require.Equal(t, 1, s.CurrentStreak)
	require.Equal(t, 9, s.LongestStreak)
	require.Equal(t, "2026-05-04", s.StreakStartDate)
}

func TestBucketByDayUsesReaderZone(t *testing.T) {
	t.Parallel()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	at := time.Date(2026, 5, 9, 15, 0, 0, 0, time.UTC) // 2026-05-10 00:00 in Tokyo
	acts := []domain.Activity{{At: at, PagesRead: 12}, {At: at.Add(2 * time.Hour), PagesRead: 3}}

	require.Equal(t, map[string]int{"2026-05-10": 15}, domain.BucketByDay(acts, tokyo))
	require.Equal(t, map[string]int{"2026-05-09": 15}, domain.BucketByDay(acts, time.UTC))
}

func TestShouldReset(t *testing.T) {
	t.Parallel()
	s := domain.Streak{CurrentStreak: 3, LastActivityDate: "2026-05-01", DailyThreshold: 10}
	require.False(t, domain.ShouldReset(s, "2026-05-02", 0))
	require.True(t, domain.ShouldReset(s, "2026-05-03", 0))
	require.False(t, domain.ShouldReset(s, "2026-05-03", 10))
	s.CurrentStreak = 0
	require.False(t, domain.ShouldReset(s, "2026-05-09", 0))
}

func TestParseThresholdNamesBound(t *testing.T) {
	t.Parallel()
	v, err := domain.ParseThreshold(" 20 ")
	require.NoError(t, err)
	require.Equal(t, 20, v)

	for _, raw := range []string{"0", "10000", "2.5", "ten"} {
		_, err := domain.ParseThreshold(raw)
		require.Error(t, err, raw)
		require.True(t, errors.Is(err, apperrors.ErrInvalidInput), raw)
		require.Equal(t, apperrors.CodeThresholdRange, apperrors.CodeOf(err))
	}
	_, err = domain.ParseThreshold("0")
	require.ErrorContains(t, err, "at least 1")
	_, err = domain.ParseThreshold("10000")
	require.ErrorContains(t, err, "at most 9999")
}

func TestUserIDDefault(t *testing.T) {
	t.Parallel()
	require.True(t, domain.UserFromPtr(nil).IsDefault())
	empty := ""
	require.Equal(t, domain.DefaultUser(), domain.UserFromPtr(&empty))
	alice := "alice"
	require.Equal(t, "alice", domain.UserFromPtr(&alice).Key())
}
