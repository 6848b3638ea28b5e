package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	bookdto "readlog/internal/modules/book/dto"
	sessiondto "readlog/internal/modules/session/dto"
)

type addBookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	TotalPages *int   `json:"total_pages"`
	FilePath   string `json:"file_path"`
	Status     string `json:"status"`
}

type addBookResponse struct {
	Book          bookResponse `json:"book"`
	SessionID     string       `json:"session_id"`
	SessionStatus string       `json:"session_status"`
}

type updateBookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	TotalPages *int    `json:"total_pages"`
}

type statusRequest struct {
	Status        string  `json:"status"`
	Rating        *int    `json:"rating"`
	Review        *string `json:"review"`
	StartedDate   string  `json:"started_date"`
	CompletedDate string  `json:"completed_date"`
	Confirm       bool    `json:"confirm"`
}

type dnfRequest struct {
	Rating            *int     `json:"rating"`
	Review            *string  `json:"review"`
	DNFDate           string   `json:"dnf_date"`
	CurrentPage       *int     `json:"current_page"`
	CurrentPercentage *float64 `json:"current_percentage"`
}

func (h *handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListBooks(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.books.AddBook(r.Context(), bookdto.AddBookInput{
		Title:      req.Title,
		Author:     req.Author,
		TotalPages: req.TotalPages,
		FilePath:   req.FilePath,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, addBookResponse{
		Book:          toBookResponse(out.Book),
		SessionID:     out.SessionID,
		SessionStatus: out.SessionStatus,
	})
}

func (h *handler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetBook(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	book, err := h.books.UpdateBook(r.Context(), bookdto.UpdateBookInput{
		BookID:     chi.URLParam(r, "bookID"),
		Title:      req.Title,
		Author:     req.Author,
		TotalPages: req.TotalPages,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.books.DeleteBook(r.Context(), chi.URLParam(r, "bookID")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.History(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) activeSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetActive(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.sessions.UpdateStatus(r.Context(), sessiondto.UpdateStatusInput{
		BookID:        chi.URLParam(r, "bookID"),
		Status:        req.Status,
		Rating:        req.Rating,
		Review:        req.Review,
		StartedDate:   req.StartedDate,
		CompletedDate: req.CompletedDate,
		Confirm:       req.Confirm,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Session:               toSessionResponse(out.Session),
		Archived:              out.Archived,
		ArchivedSessionID:     out.ArchivedSessionID,
		ArchivedSessionNumber: out.ArchivedSessionNumber,
	})
}

func (h *handler) markDNF(w http.ResponseWriter, r *http.Request) {
	var req dnfRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.sessions.MarkDNF(r.Context(), sessiondto.DNFInput{
		BookID:            chi.URLParam(r, "bookID"),
		Rating:            req.Rating,
		Review:            req.Review,
		DNFDate:           req.DNFDate,
		CurrentPage:       req.CurrentPage,
		CurrentPercentage: req.CurrentPercentage,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDNFResponse(out))
}

func (h *handler) startReread(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.StartReread(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}
