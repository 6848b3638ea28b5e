package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	bookdto "readlog/internal/modules/book/dto"
	progressdto "readlog/internal/modules/progress/dto"
	sessiondto "readlog/internal/modules/session/dto"
	streakdto "readlog/internal/modules/streak/dto"
	"readlog/internal/ui/theme"
)

func renderBook(b bookdto.BookOutput, history []sessiondto.SessionOutput) string {
	lines := []string{
		theme.Title.Render(b.Title),
		theme.Field("id", b.ID),
		theme.Field("author", b.Author),
		theme.Field("pages", fmt.Sprint(b.TotalPages)),
		theme.Field("file", b.FilePath),
	}
	if len(history) > 0 {
		lines = append(lines, "", theme.Muted.Render("sessions"))
		for _, s := range history {
			lines = append(lines, sessionLine(s))
		}
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func renderSession(s sessiondto.SessionOutput) string {
	rating := ""
	if s.Rating != nil {
		rating = strings.Repeat("*", *s.Rating)
	}
	lines := []string{
		theme.Title.Render(fmt.Sprintf("session #%d", s.SessionNumber)),
		theme.Field("id", s.ID),
		theme.Field("status", theme.Status(s.Status)),
		theme.Field("started", s.StartedDate),
		theme.Field("completed", s.CompletedDate),
		theme.Field("dnf", s.DNFDate),
		theme.Field("rating", rating),
		theme.Field("review", s.Review),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func sessionLine(s sessiondto.SessionOutput) string {
	marker := " "
	if s.IsActive {
		marker = theme.Hot.Render("*")
	}
	return fmt.Sprintf("%s #%d\t%s\t%s\t%s", marker, s.SessionNumber, s.ID, theme.Status(s.Status), s.StartedDate)
}

func entryLine(e progressdto.EntryOutput) string {
	line := fmt.Sprintf("%s\t%s\tp.%d\t%.1f%%\t+%d", e.ID, e.ProgressDate, e.CurrentPage, e.CurrentPercentage, e.PagesRead)
	if e.Notes != "" {
		line += "\t" + theme.Muted.Render(e.Notes)
	}
	return line
}

func renderStreak(s streakdto.StreakOutput) string {
	today := theme.Muted.Render(fmt.Sprintf("%d/%d pages today", s.TodayPages, s.DailyThreshold))
	if s.TodayMet {
		today = lipgloss.NewStyle().Foreground(theme.Green).Render(fmt.Sprintf("%d/%d pages today", s.TodayPages, s.DailyThreshold))
	}
	lines := []string{
		theme.Hot.Render(fmt.Sprintf("%d day streak", s.CurrentStreak)),
		today,
		theme.Field("longest", fmt.Sprint(s.LongestStreak)),
		theme.Field("since", s.StreakStartDate),
		theme.Field("last active", s.LastActivityDate),
		theme.Field("active days", fmt.Sprint(s.TotalDaysActive)),
		theme.Field("timezone", s.Timezone),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}
