package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readlog/internal/modules/session/domain"
	sessionout "readlog/internal/modules/session/port/out"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/markdown"
	"readlog/internal/platform/slug"
)

// JournalNote is the frontmatter of a finished read-through note.
type JournalNote struct {
	SchemaVersion int      `yaml:"schema_version"`
	SessionID     string   `yaml:"session_id"`
	BookID        string   `yaml:"book_id"`
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author,omitempty"`
	Session       int      `yaml:"session"`
	Status        string   `yaml:"status"`
	Started       string   `yaml:"started,omitempty"`
	Finished      string   `yaml:"finished"`
	Rating        *int     `yaml:"rating,omitempty"`
	FinalPage     *int     `yaml:"final_page,omitempty"`
	FinalPercent  *float64 `yaml:"final_percent,omitempty"`
}

// VaultJournal writes one markdown note per finished session under
// <dir>/YYYY/MM. Rewriting a note only replaces its generated summary
// block, so text the reader added around it survives.
type VaultJournal struct {
	dir string
}

func NewVaultJournal(dir string) sessionout.Journal {
	return &VaultJournal{dir: dir}
}

func (j *VaultJournal) RecordFinished(_ context.Context, entry sessionout.JournalEntry) (string, error) {
	session := entry.Session
	finished := session.CompletedDate
	if session.Status == domain.StatusDNF {
		finished = session.DNFDate
	}
	day, err := clock.ParseDate(finished)
	if err != nil {
		return "", fmt.Errorf("journal date: %w", err)
	}
	dir := filepath.Join(j.dir, day.Format("2006"), day.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%d.md", finished, slug.Make(entry.Book.Title), session.Number)
	path := filepath.Join(dir, name)

	note := JournalNote{
		SchemaVersion: domain.JournalSchemaVersion,
		SessionID:     session.ID,
		BookID:        session.BookID,
		Title:         entry.Book.Title,
		Author:        entry.Book.Author,
		Session:       session.Number,
		Status:        string(session.Status),
		Started:       session.StartedDate,
		Finished:      finished,
		Rating:        session.Rating,
	}
	if last := entry.LastProgress; last != nil {
		note.FinalPage = &last.CurrentPage
		note.FinalPercent = &last.CurrentPercentage
	}
	body := "# " + entry.Book.Title + "\n"
	if existing, err := os.ReadFile(path); err == nil {
		var previous JournalNote
		if body, err = markdown.SplitFrontmatter(string(existing), &previous); err != nil {
			return "", fmt.Errorf("read journal note %s: %w", path, err)
		}
	}
	body = markdown.ReplaceBlock(body, "summary", journalSummary(entry, finished))
	rendered, err := markdown.RenderFrontmatter(note, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func journalSummary(entry sessionout.JournalEntry, finished string) string {
	var b strings.Builder
	if entry.Book.Author != "" {
		fmt.Fprintf(&b, "- Author: %s\n", entry.Book.Author)
	}
	verb := "Finished"
	if entry.Session.Status == domain.StatusDNF {
		verb = "Stopped"
	}
	fmt.Fprintf(&b, "- Read-through: %d\n- %s: %s\n", entry.Session.Number, verb, finished)
	if entry.Session.Rating != nil {
		fmt.Fprintf(&b, "- Rating: %s\n", strings.Repeat("*", *entry.Session.Rating))
	}
	if entry.Session.Review != "" {
		fmt.Fprintf(&b, "\n## Review\n\n%s\n", entry.Session.Review)
	}
	return b.String()
}

// NopJournal is used when no journal directory is configured.
type NopJournal struct{}

func (NopJournal) RecordFinished(context.Context, sessionout.JournalEntry) (string, error) {
	return "", nil
}
