package dto

import "time"

type SessionOutput struct {
	ID            string
	BookID        string
	SessionNumber int
	Status        string
	StartedDate   string
	CompletedDate string
	DNFDate       string
	Rating        *int
	Review        string
	IsActive      bool
	ReadNextOrder int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EnrollInput struct {
	BookID string
	// Status is to-read or read-next; empty means to-read.
	Status string
}

type UpdateStatusInput struct {
	BookID        string
	Status        string
	Rating        *int
	Review        *string
	StartedDate   string
	CompletedDate string
	// Confirm allows a backward move that archives recorded progress.
	Confirm bool
}

type UpdateStatusOutput struct {
	Session               SessionOutput
	Archived              bool
	ArchivedSessionID     string
	ArchivedSessionNumber int
}

type DNFInput struct {
	BookID            string
	Rating            *int
	Review            *string
	DNFDate           string
	CurrentPage       *int
	CurrentPercentage *float64
}

// ProgressSnapshot is the last ledger entry of a session, used to prefill
// a final position.
type ProgressSnapshot struct {
	EntryID           string
	CurrentPage       int
	CurrentPercentage float64
	ProgressDate      string
}

type DNFOutput struct {
	Session      SessionOutput
	LastProgress *ProgressSnapshot
}
