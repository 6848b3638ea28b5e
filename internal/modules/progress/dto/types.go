package dto

import "time"

// Source labels why an entry was written.
const (
	SourceManual     = "manual"
	SourceCompletion = "completion"
	SourceDNF        = "dnf"
)

type AppendInput struct {
	SessionID         string
	CurrentPage       *int
	CurrentPercentage *float64
	// ProgressDate is YYYY-MM-DD in the reader's timezone; empty means today.
	ProgressDate string
	Notes        string
	Source       string
}

// EditInput patches an entry; nil fields are left as they are.
type EditInput struct {
	EntryID           string
	CurrentPage       *int
	CurrentPercentage *float64
	ProgressDate      *string
	Notes             *string
}

type EntryOutput struct {
	ID                string
	BookID            string
	SessionID         string
	CurrentPage       int
	CurrentPercentage float64
	ProgressDate      string
	Notes             string
	PagesRead         int
	CreatedAt         time.Time
}

// SessionQuery reads one session's entries. Dates are rendered in Timezone,
// or the reader's zone when empty.
type SessionQuery struct {
	SessionID string
	Timezone  string
}

// RangeInput bounds are inclusive calendar days.
type RangeInput struct {
	Start    string
	End      string
	Timezone string
}

type AverageInput struct {
	Since    string
	Timezone string
}

type AverageOutput struct {
	Since         string
	Until         string
	Days          int
	PagesRead     int
	AveragePerDay float64
}

type ActivityOutput struct {
	At        time.Time
	PagesRead int
}
