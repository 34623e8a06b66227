package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Mock booking passthrough, served at the paths the viewer has
	// always fetched them from.
	r.Get("/api/bookings", s.handleBookings)
	r.Get("/api/room-access-logs", s.handleAccessLogs)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication - user must be logged in to request a ticket
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Floors visible to the authenticated identity
			r.Get("/floors", s.handleListFloors)

			// Map session operations
			r.Route("/session", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Put("/floor", s.handleSetFloor)
				r.Put("/overlay", s.handleSetOverlay)
				r.Put("/hour", s.handleSetHour)
				r.Put("/display", s.handleSetDisplay)
			})

			// Room preference endpoints
			r.Route("/rooms/{slug}", func(r chi.Router) {
				r.Get("/preferences", s.handleGetPreferences)
				r.Put("/hours", s.handlePickHours)
				r.Put("/notify", s.handleSetNotify)
			})

			// Audit trail
			r.Get("/audit-logs", s.handleListAuditLogs)

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
