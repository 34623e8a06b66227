package api

import (
	"net/http"
)

// floorSummary is the list representation of a floor. Geometry is
// deliberately omitted; the viewer receives it through map.op events
// when the floor becomes active.
type floorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleListFloors returns the floors the authenticated identity may
// view, in catalog order. Identities without grants see an empty list.
func (s *Server) handleListFloors(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	ids, err := s.gate.FloorIDs(identity)
	if err != nil {
		// A verified token for an identity no longer in configuration.
		writeJSON(w, http.StatusOK, map[string]any{"floors": []floorSummary{}, "count": 0})
		return
	}

	floors := s.catalog.Select(ids)
	summaries := make([]floorSummary, 0, len(floors))
	for _, f := range floors {
		summaries = append(summaries, floorSummary{ID: f.ID, Name: f.Name})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"floors": summaries,
		"count":  len(summaries),
	})
}

// floorGranted reports whether the identity may view the floor.
func (s *Server) floorGranted(identity, floorID string) bool {
	ids, err := s.gate.FloorIDs(identity)
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == floorID {
			return true
		}
	}
	return false
}
