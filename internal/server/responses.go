package server

import (
	"time"

	bookdto "readlog/internal/modules/book/dto"
	progressdto "readlog/internal/modules/progress/dto"
	sessiondto "readlog/internal/modules/session/dto"
	streakdto "readlog/internal/modules/streak/dto"
)

type bookResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	TotalPages int       `json:"total_pages"`
	FilePath   string    `json:"file_path,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

func toBookResponse(b bookdto.BookOutput) bookResponse {
	return bookResponse{ID: b.ID, Title: b.Title, Author: b.Author, TotalPages: b.TotalPages, FilePath: b.FilePath, AddedAt: b.AddedAt}
}

type sessionResponse struct {
	ID            string `json:"id"`
	BookID        string `json:"book_id"`
	SessionNumber int    `json:"session_number"`
	Status        string `json:"status"`
	StartedDate   string `json:"started_date,omitempty"`
	CompletedDate string `json:"completed_date,omitempty"`
	DNFDate       string `json:"dnf_date,omitempty"`
	Rating        *int   `json:"rating,omitempty"`
	Review        string `json:"review,omitempty"`
	IsActive      bool   `json:"is_active"`
	ReadNextOrder int    `json:"read_next_order,omitempty"`
}

func toSessionResponse(s sessiondto.SessionOutput) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		BookID:        s.BookID,
		SessionNumber: s.SessionNumber,
		Status:        s.Status,
		StartedDate:   s.StartedDate,
		CompletedDate: s.CompletedDate,
		DNFDate:       s.DNFDate,
		Rating:        s.Rating,
		Review:        s.Review,
		IsActive:      s.IsActive,
		ReadNextOrder: s.ReadNextOrder,
	}
}

type statusResponse struct {
	Session               sessionResponse `json:"session"`
	Archived              bool            `json:"archived"`
	ArchivedSessionID     string          `json:"archived_session_id,omitempty"`
	ArchivedSessionNumber int             `json:"archived_session_number,omitempty"`
}

type snapshotResponse struct {
	EntryID           string  `json:"entry_id"`
	CurrentPage       int     `json:"current_page"`
	CurrentPercentage float64 `json:"current_percentage"`
	ProgressDate      string  `json:"progress_date"`
}

type dnfResponse struct {
	Session      sessionResponse   `json:"session"`
	LastProgress *snapshotResponse `json:"last_progress,omitempty"`
}

func toDNFResponse(out sessiondto.DNFOutput) dnfResponse {
	resp := dnfResponse{Session: toSessionResponse(out.Session)}
	if p := out.LastProgress; p != nil {
		resp.LastProgress = &snapshotResponse{EntryID: p.EntryID, CurrentPage: p.CurrentPage, CurrentPercentage: p.CurrentPercentage, ProgressDate: p.ProgressDate}
	}
	return resp
}

type entryResponse struct {
	ID                string  `json:"id"`
	BookID            string  `json:"book_id"`
	SessionID         string  `json:"session_id"`
	CurrentPage       int     `json:"current_page"`
	CurrentPercentage float64 `json:"current_percentage"`
	ProgressDate      string  `json:"progress_date"`
	Notes             string  `json:"notes,omitempty"`
	PagesRead         int     `json:"pages_read"`
}

func toEntryResponse(e progressdto.EntryOutput) entryResponse {
	return entryResponse{
		ID:                e.ID,
		BookID:            e.BookID,
		SessionID:         e.SessionID,
		CurrentPage:       e.CurrentPage,
		CurrentPercentage: e.CurrentPercentage,
		ProgressDate:      e.ProgressDate,
		Notes:             e.Notes,
		PagesRead:         e.PagesRead,
	}
}

type averageResponse struct {
	Since         string  `json:"since"`
	Until         string  `json:"until"`
	Days          int     `json:"days"`
	PagesRead     int     `json:"pages_read"`
	AveragePerDay float64 `json:"average_per_day"`
}

type streakResponse struct {
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	StreakStartDate  string `json:"streak_start_date,omitempty"`
	TotalDaysActive  int    `json:"total_days_active"`
	DailyThreshold   int    `json:"daily_threshold"`
	Timezone         string `json:"timezone"`
	Today            string `json:"today"`
	TodayPages       int    `json:"today_pages"`
	TodayMet         bool   `json:"today_met"`
}

func toStreakResponse(s streakdto.StreakOutput) streakResponse {
	return streakResponse{
		CurrentStreak:    s.CurrentStreak,
		LongestStreak:    s.LongestStreak,
		LastActivityDate: s.LastActivityDate,
		StreakStartDate:  s.StreakStartDate,
		TotalDaysActive:  s.TotalDaysActive,
		DailyThreshold:   s.DailyThreshold,
		Timezone:         s.Timezone,
		Today:            s.Today,
		TodayPages:       s.TodayPages,
		TodayMet:         s.TodayMet,
	}
}
