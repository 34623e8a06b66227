package api

import (
	"encoding/json"
	"net/http"
)

// setFloorRequest is the request body for PUT /session/floor.
// A null or empty floor_id deselects the floor and returns the camera
// to the world view.
type setFloorRequest struct {
	FloorID *string `json:"floor_id"`
}

// handleGetSession returns a snapshot of the shared map session.
func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleSetFloor switches the map session to a floor the identity is
// granted, or back to the world view.
func (s *Server) handleSetFloor(w http.ResponseWriter, r *http.Request) {
	var req setFloorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.FloorID == nil || *req.FloorID == "" {
		s.session.SelectFloor(nil)
		writeJSON(w, http.StatusOK, s.session.Snapshot())
		return
	}

	floor, ok := s.catalog.Floor(*req.FloorID)
	if !ok {
		writeNotFound(w, "unknown floor")
		return
	}
	if !s.floorGranted(identityFrom(r.Context()), floor.ID) {
		writeForbidden(w, "floor not granted to this identity")
		return
	}

	s.session.SelectFloor(floor)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleSetOverlay toggles the lock-activity overlay.
func (s *Server) handleSetOverlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	s.session.SetOverlayVisible(req.Visible)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleSetHour re-filters the activity overlay to a given hour.
func (s *Server) handleSetHour(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hour *int `json:"hour"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Hour == nil {
		writeBadRequest(w, "hour is required")
		return
	}
	if *req.Hour < 0 || *req.Hour > 23 {
		writeBadRequest(w, "hour must be between 0 and 23")
		return
	}

	s.session.SetHour(*req.Hour)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleSetDisplay updates the marker display toggles. Fields left out
// of the body are unchanged.
func (s *Server) handleSetDisplay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShowNames      *bool `json:"show_names"`
		ConferenceOnly *bool `json:"conference_only"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.ShowNames != nil {
		s.session.SetDisplayMode(*req.ShowNames)
	}
	if req.ConferenceOnly != nil {
		s.session.SetConferenceOnly(*req.ConferenceOnly)
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}
