package api

import (
	"net/http"
)

// handleBookings serves the mock booking dataset at the path the
// viewer fetches it from.
func (s *Server) handleBookings(w http.ResponseWriter, _ *http.Request) {
	if s.mock == nil {
		writeInternalError(w, "booking data not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mockBookings": s.mock.Bookings(),
	})
}

// handleAccessLogs serves the mock room access log dataset.
func (s *Server) handleAccessLogs(w http.ResponseWriter, _ *http.Request) {
	if s.mock == nil {
		writeInternalError(w, "access log data not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mockRoomAccessLogs": s.mock.AccessLogs(),
	})
}
