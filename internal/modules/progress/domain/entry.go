package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
)

// CompletePercentage marks an entry as the end of a read-through.
const CompletePercentage = 100.0

// Entry is one dated reading position inside a session. ProgressDate is
// the UTC instant of local midnight for the calendar day it was logged
// against.
type Entry struct {
	ID                string
	BookID            string
	SessionID         string
	CurrentPage       int
	CurrentPercentage float64
	ProgressDate      time.Time
	Notes             string
	PagesRead         int
	CreatedAt         time.Time
}

func (e Entry) IsComplete() bool {
	return e.CurrentPercentage >= CompletePercentage
}

// Before orders entries chronologically. Same-day entries fall back to
// creation order, then id.
func (e Entry) Before(other Entry) bool {
	if !e.ProgressDate.Equal(other.ProgressDate) {
		return e.ProgressDate.Before(other.ProgressDate)
	}
	if !e.CreatedAt.Equal(other.CreatedAt) {
		return e.CreatedAt.Before(other.CreatedAt)
	}
	return e.ID < other.ID
}

func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Before(entries[j]) })
}

type Position struct {
	Page       int
	Percentage float64
}

// ResolvePosition fills in whichever of page and percentage is missing.
// Deriving one from the other needs the book's page count.
func ResolvePosition(page *int, percentage *float64, totalPages int) (Position, error) {
	if page == nil && percentage == nil {
		return Position{}, apperrors.Validation(apperrors.CodeInvalidProgress, "current_page", "a page or a percentage is required")
	}
	if page != nil && *page < 0 {
		return Position{}, apperrors.Validation(apperrors.CodeInvalidProgress, "current_page", "must not be negative")
	}
	if page != nil && totalPages > 0 && *page > totalPages {
		return Position{}, apperrors.Validation(apperrors.CodeInvalidProgress, "current_page", "page %d is past the last page %d", *page, totalPages)
	}
	if percentage != nil && math.IsNaN(*percentage) {
		return Position{}, apperrors.Validation(apperrors.CodeInvalidProgress, "current_percentage", "must be a number")
	}

	switch {
	case page != nil && percentage != nil:
		return Position{Page: *page, Percentage: ClampPercentage(*percentage)}, nil
	case totalPages <= 0:
		field := "current_percentage"
		if page != nil {
			field = "current_page"
		}
		return Position{}, apperrors.Validation(apperrors.CodePagesRequired, field, "book has no page count to convert between pages and percentage")
	case page != nil:
		return Position{Page: *page, Percentage: PercentageOf(*page, totalPages)}, nil
	default:
		pct := ClampPercentage(*percentage)
		return Position{Page: int(math.Round(pct / 100 * float64(totalPages))), Percentage: pct}, nil
	}
}

func ClampPercentage(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}

// PercentageOf rounds to two decimals.
func PercentageOf(page, totalPages int) float64 {
	if totalPages <= 0 {
		return 0
	}
	return ClampPercentage(math.Round(float64(page)/float64(totalPages)*10000) / 100)
}

// Neighbors finds the entries immediately before and after e among
// siblings, ignoring e itself.
func Neighbors(siblings []Entry, e Entry) (prev, next *Entry) {
	for idx := range siblings {
		s := siblings[idx]
		if s.ID == e.ID {
			continue
		}
		if s.Before(e) {
			if prev == nil || prev.Before(s) {
				prev = &siblings[idx]
			}
			continue
		}
		if next == nil || s.Before(*next) {
			next = &siblings[idx]
		}
	}
	return prev, next
}

// CheckOrder rejects a position that would make the page count go
// backwards in time.
func CheckOrder(prev, next *Entry, page int, loc *time.Location) error {
	if prev != nil && prev.CurrentPage > page {
		return temporalConflict(*prev, page, "earlier", loc)
	}
	if next != nil && next.CurrentPage < page {
		return temporalConflict(*next, page, "later", loc)
	}
	return nil
}

func temporalConflict(neighbor Entry, page int, side string, loc *time.Location) error {
	return &apperrors.Error{
		Kind:  apperrors.ErrInvalidInput,
		Code:  apperrors.CodeTemporalConflict,
		Field: "current_page",
		Ref:   neighbor.ID,
		Message: fmt.Sprintf("page %d conflicts with %s entry %s on %s at page %d",
			page, side, neighbor.ID, clock.DateOf(neighbor.ProgressDate, loc), neighbor.CurrentPage),
	}
}

// PagesRead is the delta from the previous entry, never negative.
func PagesRead(prev *Entry, page int) int {
	if prev == nil {
		return max(0, page)
	}
	return max(0, page-prev.CurrentPage)
}
