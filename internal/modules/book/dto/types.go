package dto

import "time"

type AddBookInput struct {
	Title  string
	Author string
	// TotalPages overrides the count read from a PDF FilePath.
	TotalPages *int
	FilePath   string
	// Status of the first session, to-read or read-next.
	Status string
}

// UpdateBookInput patches catalog fields; nil fields are kept.
type UpdateBookInput struct {
	BookID     string
	Title      *string
	Author     *string
	TotalPages *int
}

type BookOutput struct {
	ID         string
	Title      string
	Slug       string
	Author     string
	TotalPages int
	FilePath   string
	AddedAt    time.Time
}

type AddBookOutput struct {
	Book          BookOutput
	SessionID     string
	SessionStatus string
}
