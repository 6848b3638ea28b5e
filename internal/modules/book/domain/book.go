package domain

import (
	"path/filepath"
	"strings"
	"time"

	apperrors "readlog/internal/platform/errors"
)

// Book is a catalog entry. TotalPages is zero when the page count is
// unknown, which disables page/percentage conversion in the ledger.
type Book struct {
	ID         string
	Title      string
	Slug       string
	Author     string
	TotalPages int
	FilePath   string
	AddedAt    time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return apperrors.Validation(apperrors.CodeInvalidBook, "title", "is required")
	}
	return ValidatePages(b.TotalPages)
}

func ValidatePages(total int) error {
	if total < 0 {
		return apperrors.Validation(apperrors.CodeInvalidBook, "total_pages", "must not be negative, got %d", total)
	}
	return nil
}

// TitleFromPath names a book after its file when no title is given.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

// IsPDF reports whether the page count can be read from the file.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
