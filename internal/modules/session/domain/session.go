package domain

import (
	"strings"
	"time"

	apperrors "readlog/internal/platform/errors"
)

// JournalSchemaVersion is written into every journal note's frontmatter.
const JournalSchemaVersion = 1

type Status string

const (
	StatusToRead   Status = "to-read"
	StatusReadNext Status = "read-next"
	StatusReading  Status = "reading"
	StatusRead     Status = "read"
	StatusDNF      Status = "dnf"
)

var statusRank = map[Status]int{
	StatusToRead:   0,
	StatusReadNext: 1,
	StatusReading:  2,
	StatusRead:     3,
	StatusDNF:      3,
}

// ParseStatus accepts the canonical names case-insensitively, with
// underscores or spaces in place of dashes.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	if normalized == "did-not-finish" {
		normalized = string(StatusDNF)
	}
	status := Status(normalized)
	if _, ok := statusRank[status]; !ok {
		return "", apperrors.Validation(apperrors.CodeInvalidStatus, "status", "%q is not one of to-read, read-next, reading, read, dnf", raw)
	}
	return status, nil
}

func (s Status) Finished() bool {
	return s == StatusRead || s == StatusDNF
}

// IsBackward reports a move to an earlier stage of a read-through.
func IsBackward(from, to Status) bool {
	return statusRank[to] < statusRank[from]
}

// RequiresArchiveConfirmation guards against silently discarding recorded
// progress by moving a session backwards.
func RequiresArchiveConfirmation(from, to Status, hasProgress bool) bool {
	return hasProgress && IsBackward(from, to)
}

// Session is one read-through of a book. At most one session per book is
// active; the rest are history.
type Session struct {
	ID            string
	BookID        string
	Number        int
	Status        Status
	StartedDate   string
	CompletedDate string
	DNFDate       string
	Rating        *int
	Review        string
	Active        bool
	ReadNextOrder int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 5 {
		return apperrors.Validation(apperrors.CodeInvalidRating, "rating", "must be between 1 and 5, got %d", *rating)
	}
	return nil
}

// NextNumber is one past the highest session number in history.
func NextNumber(history []Session) int {
	highest := 0
	for _, s := range history {
		highest = max(highest, s.Number)
	}
	return highest + 1
}

func HasCompletedRead(history []Session) bool {
	for _, s := range history {
		if s.Status == StatusRead && !s.Active {
			return true
		}
	}
	return false
}

// MoveTo changes status in place and keeps the read-next queue position
// only while the session is queued.
func (s *Session) MoveTo(status Status) {
	s.Status = status
	if status != StatusReadNext {
		s.ReadNextOrder = 0
	}
}

func (s *Session) ApplyNotes(rating *int, review *string) bool {
	changed := false
	if rating != nil && (s.Rating == nil || *s.Rating != *rating) {
		r := *rating
		s.Rating = &r
		changed = true
	}
	if review != nil {
		s.Review = strings.TrimSpace(*review)
	}
	return changed
}
