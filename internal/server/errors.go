package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "readlog/internal/platform/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Ref     string `json:"ref,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.ErrInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrConflict:
		return http.StatusConflict
	case apperrors.ErrPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, status, errorBody{Code: "INTERNAL_ERROR", Message: "internal error"})
		return
	}
	body := errorBody{Code: apperrors.CodeOf(err), Message: err.Error()}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		body.Message = domainErr.Message
		body.Field = domainErr.Field
		body.Ref = domainErr.Ref
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation(apperrors.CodeInvalidRequest, "body", "malformed JSON: %v", err)
	}
	return nil
}
