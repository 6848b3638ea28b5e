package dto

import "time"

// UserInput selects whose streak to act on. A nil UserID is the default
// single user.
type UserInput struct {
	UserID *string
}

type RebuildInput struct {
	UserID *string
	Reason string
}

type ActivityInput struct {
	UserID *string
	Date   string
}

type ThresholdInput struct {
	UserID *string
	Value  string
}

type TimezoneInput struct {
	UserID   *string
	Timezone string
}

type StreakOutput struct {
	UserID           string
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate string
	StreakStartDate  string
	TotalDaysActive  int
	DailyThreshold   int
	Timezone         string
	Today            string
	TodayPages       int
	TodayMet         bool
	UpdatedAt        time.Time
}
