package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
)

const (
	MinThreshold     = 1
	MaxThreshold     = 9999
	DefaultThreshold = 1
)

// UserID identifies whose streak a row holds. The zero value is the single
// default user of a local install, persisted under the key "".
type UserID struct {
	id string
}

func DefaultUser() UserID { return UserID{} }

// User returns the default user for an empty id.
func User(id string) UserID { return UserID{id: strings.TrimSpace(id)} }

// UserFromPtr maps an optional id to a UserID.
func UserFromPtr(id *string) UserID {
	if id == nil {
		return DefaultUser()
	}
	return User(*id)
}

func (u UserID) Key() string { return u.id }

func (u UserID) IsDefault() bool { return u.id == "" }

func (u UserID) String() string {
	if u.IsDefault() {
		return "default"
	}
	return u.id
}

type Streak struct {
	User             UserID
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate string
	StreakStartDate  string
	TotalDaysActive  int
	DailyThreshold   int
	Timezone         string
	UpdatedAt        time.Time
}

func New(user UserID, now time.Time) Streak {
	return Streak{User: user, DailyThreshold: DefaultThreshold, UpdatedAt: now}
}

// Activity is one ledger entry as the streak engine sees it: the stored
// start-of-day instant and the pages it added.
type Activity struct {
	At        time.Time
	PagesRead int
}

// BucketByDay sums pages per calendar day in loc.
func BucketByDay(activity []Activity, loc *time.Location) map[string]int {
	days := make(map[string]int, len(activity))
	for _, a := range activity {
		days[clock.DateOf(a.At, loc)] += a.PagesRead
	}
	return days
}

func ThresholdMet(pages, threshold int) bool {
	return pages >= threshold
}

// Summary is the result of a full recompute.
type Summary struct {
	Current         int
	Longest         int
	LastActivity    string
	Start           string
	TotalDaysActive int
}

// Compute walks qualifying days in ascending order. A run only counts as
// current when its last day is today or yesterday.
func Compute(daily map[string]int, threshold int, today string) Summary {
	qualifying := make([]string, 0, len(daily))
	for day, pages := range daily {
		if ThresholdMet(pages, threshold) {
			qualifying = append(qualifying, day)
		}
	}
	sort.Strings(qualifying)
	if len(qualifying) == 0 {
		return Summary{}
	}

	sum := Summary{TotalDaysActive: len(qualifying)}
	run := 0
	runStart := ""
	prev := ""
	for _, day := range qualifying {
		if prev != "" && consecutive(prev, day) {
			run++
		} else {
			run = 1
			runStart = day
		}
		if run > sum.Longest {
			sum.Longest = run
		}
		prev = day
	}
	sum.LastActivity = prev
	if gap, err := clock.DaysBetween(prev, today); err == nil && gap <= 1 {
		sum.Current = run
		sum.Start = runStart
	}
	return sum
}

func consecutive(prev, day string) bool {
	gap, err := clock.DaysBetween(prev, day)
	return err == nil && gap == 1
}

// Apply overwrites the derived fields with a recompute.
func (s *Streak) Apply(sum Summary, now time.Time) {
	s.CurrentStreak = sum.Current
	s.LongestStreak = sum.Longest
	s.LastActivityDate = sum.LastActivity
	s.StreakStartDate = sum.Start
	s.TotalDaysActive = sum.TotalDaysActive
	s.UpdatedAt = now
}

// Extend counts day as a qualifying day without a full recompute. It is
// only valid for the newest day, which is what the incremental path feeds.
func (s *Streak) Extend(day string, now time.Time) bool {
	if day == s.LastActivityDate {
		return false
	}
	if s.LastActivityDate != "" && consecutive(s.LastActivityDate, day) && s.CurrentStreak > 0 {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
		s.StreakStartDate = day
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = day
	s.TotalDaysActive++
	s.UpdatedAt = now
	return true
}

// ShouldReset reports whether the current streak has lapsed: the last
// counted day is more than one day back and yesterday fell short.
func ShouldReset(s Streak, today string, yesterdayPages int) bool {
	if s.CurrentStreak == 0 || s.LastActivityDate == "" {
		return false
	}
	gap, err := clock.DaysBetween(s.LastActivityDate, today)
	if err != nil || gap <= 1 {
		return false
	}
	return !ThresholdMet(yesterdayPages, s.DailyThreshold)
}

func ValidateThreshold(value int) error {
	if value < MinThreshold {
		return apperrors.Validation(apperrors.CodeThresholdRange, "daily_threshold", "must be at least %d", MinThreshold)
	}
	if value > MaxThreshold {
		return apperrors.Validation(apperrors.CodeThresholdRange, "daily_threshold", "must be at most %d", MaxThreshold)
	}
	return nil
}

// ParseThreshold accepts the raw user input, rejecting anything that is not
// a whole number in range.
func ParseThreshold(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Validation(apperrors.CodeThresholdRange, "daily_threshold", "%q is not an integer between %d and %d", raw, MinThreshold, MaxThreshold)
	}
	if err := ValidateThreshold(value); err != nil {
		return 0, err
	}
	return value, nil
}
