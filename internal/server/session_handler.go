package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	progressdto "readlog/internal/modules/progress/dto"
)

type appendProgressRequest struct {
	CurrentPage       *int     `json:"current_page"`
	CurrentPercentage *float64 `json:"current_percentage"`
	ProgressDate      string   `json:"progress_date"`
	Notes             string   `json:"notes"`
}

type editProgressRequest struct {
	CurrentPage       *int     `json:"current_page"`
	CurrentPercentage *float64 `json:"current_percentage"`
	ProgressDate      *string  `json:"progress_date"`
	Notes             *string  `json:"notes"`
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) archiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Archive(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *handler) listProgress(w http.ResponseWriter, r *http.Request) {
	entries, err := h.progress.ListForSession(r.Context(), progressdto.SessionQuery{
		SessionID: chi.URLParam(r, "sessionID"),
		Timezone:  r.URL.Query().Get("tz"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) appendProgress(w http.ResponseWriter, r *http.Request) {
	var req appendProgressRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entry, err := h.progress.Append(r.Context(), progressdto.AppendInput{
		SessionID:         chi.URLParam(r, "sessionID"),
		CurrentPage:       req.CurrentPage,
		CurrentPercentage: req.CurrentPercentage,
		ProgressDate:      req.ProgressDate,
		Notes:             req.Notes,
		Source:            progressdto.SourceManual,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.progress.GetEntry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *handler) editEntry(w http.ResponseWriter, r *http.Request) {
	var req editProgressRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entry, err := h.progress.Edit(r.Context(), progressdto.EditInput{
		EntryID:           chi.URLParam(r, "entryID"),
		CurrentPage:       req.CurrentPage,
		CurrentPercentage: req.CurrentPercentage,
		ProgressDate:      req.ProgressDate,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.Delete(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) pagesInRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := progressdto.RangeInput{Start: q.Get("start"), End: q.Get("end"), Timezone: q.Get("tz")}
	total, err := h.progress.TotalPagesReadInRange(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"start": input.Start, "end": input.End, "pages_read": total})
}

func (h *handler) averagePerDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	avg, err := h.progress.AveragePagesPerDay(r.Context(), progressdto.AverageInput{Since: q.Get("since"), Timezone: q.Get("tz")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, averageResponse{
		Since:         avg.Since,
		Until:         avg.Until,
		Days:          avg.Days,
		PagesRead:     avg.PagesRead,
		AveragePerDay: avg.AveragePerDay,
	})
}
