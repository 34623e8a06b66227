package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lastlock/lockmap-core/internal/prefs"
)

// preferencesResponse is the read model for a room's preferences.
// Missing records render with placeholder values rather than a 404,
// matching how the viewer has always displayed unset rooms.
type preferencesResponse struct {
	Slug       string `json:"slug"`
	Hours      string `json:"hours"`
	NotifyMode string `json:"notify_mode"`
}

// handleGetPreferences returns the stored preferences for a room slug.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	record, err := s.prefs.Get(r.Context(), slug)
	if err != nil {
		s.logger.Error("failed to load preferences", "slug", slug, "error", err)
		writeInternalError(w, "failed to load preferences")
		return
	}

	resp := preferencesResponse{
		Slug:       slug,
		Hours:      record.HoursString(),
		NotifyMode: string(prefs.NotifyOff),
	}
	if record != nil {
		resp.NotifyMode = string(record.NotifyMode)
	}
	writeJSON(w, http.StatusOK, resp)
}

// pickHoursRequest is the request body for PUT /rooms/{slug}/hours.
// Each call carries one side of the two-step hours selection; setting
// cancel discards a half-complete selection instead.
type pickHoursRequest struct {
	Side   string `json:"side"`
	Value  string `json:"value"`
	Cancel bool   `json:"cancel"`
}

// handlePickHours feeds one wizard step. The response reports whether
// the selection is complete and, once it is, the saved hours string.
func (s *Server) handlePickHours(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req pickHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Cancel {
		s.prefs.CancelHours(slug)
		writeJSON(w, http.StatusOK, map[string]any{"done": false, "cancelled": true})
		return
	}

	side := prefs.Side(req.Side)
	if !side.Valid() {
		writeBadRequest(w, "side must be opening or closing")
		return
	}
	if req.Value == "" {
		writeBadRequest(w, "value is required")
		return
	}

	record, done, err := s.prefs.PickHour(r.Context(), identityFrom(r.Context()), slug, side, req.Value)
	if err != nil {
		s.logger.Error("hours wizard step failed", "slug", slug, "error", err)
		writeInternalError(w, "failed to save hours")
		return
	}

	resp := map[string]any{"done": done}
	if done {
		resp["hours"] = record.HoursString()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSetNotify updates a room's notification mode immediately.
func (s *Server) handleSetNotify(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	mode := prefs.NotifyMode(req.Mode)
	if !mode.Valid() {
		writeBadRequest(w, "mode must be off, afterHours or always")
		return
	}

	record, err := s.prefs.SetNotifyMode(r.Context(), identityFrom(r.Context()), slug, mode)
	if err != nil {
		s.logger.Error("failed to set notify mode", "slug", slug, "error", err)
		writeInternalError(w, "failed to save notification mode")
		return
	}

	writeJSON(w, http.StatusOK, preferencesResponse{
		Slug:       slug,
		Hours:      record.HoursString(),
		NotifyMode: string(record.NotifyMode),
	})
}
