package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	streakdto "readlog/internal/modules/streak/dto"
)

type thresholdRequest struct {
	UserID *string `json:"user_id"`
	// Value accepts 20 or "20"; anything else reaches the range check as text.
	Value json.RawMessage `json:"value"`
}

// text unquotes a JSON string value and returns any other literal as written.
func (r thresholdRequest) text() string {
	raw := bytes.TrimSpace(r.Value)
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

type timezoneRequest struct {
	UserID   *string `json:"user_id"`
	Timezone string  `json:"timezone"`
}

type rebuildRequest struct {
	UserID *string `json:"user_id"`
}

// userParam reads ?user=; absent means the default reader.
func userParam(r *http.Request) *string {
	if v := r.URL.Query().Get("user"); v != "" {
		return &v
	}
	return nil
}

func (h *handler) getStreak(w http.ResponseWriter, r *http.Request) {
	out, err := h.streak.CheckAndReset(r.Context(), streakdto.UserInput{UserID: userParam(r)})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponse(out))
}

func (h *handler) rebuildStreak(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	out, err := h.streak.Rebuild(r.Context(), streakdto.RebuildInput{UserID: req.UserID, Reason: "api"})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponse(out))
}

func (h *handler) setThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.streak.UpdateThreshold(r.Context(), streakdto.ThresholdInput{UserID: req.UserID, Value: req.text()})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponse(out))
}

func (h *handler) setTimezone(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.streak.SetTimezone(r.Context(), streakdto.TimezoneInput{UserID: req.UserID, Timezone: req.Timezone})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponse(out))
}
