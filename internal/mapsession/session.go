package mapsession

import (
	"sync"
	"time"

	"github.com/lastlock/lockmap-core/internal/booking"
	"github.com/lastlock/lockmap-core/internal/floorplan"
	"github.com/lastlock/lockmap-core/internal/infrastructure/config"
	"github.com/lastlock/lockmap-core/internal/infrastructure/logging"
	"github.com/lastlock/lockmap-core/internal/lockactivity"
)

// phase tracks where a floor transition currently is.
type phase int

const (
	phaseIdle phase = iota
	phaseFittingBounds
	phaseLayersReady
)

func (p phase) String() string {
	switch p {
	case phaseFittingBounds:
		return "fitting_bounds"
	case phaseLayersReady:
		return "layers_ready"
	default:
		return "idle"
	}
}

// Classifier resolves a room's visual state from the booking data the
// caller holds. It must be pure.
type Classifier func(room floorplan.RoomProperties) booking.VisualState

// Session owns one viewer's map state. All methods are safe for
// concurrent use; surface calls happen under the session lock.
type Session struct {
	mu sync.Mutex

	surface     Surface
	broadcaster Broadcaster
	activity    *lockactivity.Dataset
	classify    Classifier
	logger      *logging.Logger

	worldCenter     floorplan.Position
	worldZoom       float64
	fitPadding      int
	fitFallback     time.Duration
	hoverClearDelay time.Duration
	defaultHour     int

	floor          *floorplan.Floor
	hour           int
	overlayVisible bool
	showNames      bool
	conferenceOnly bool

	phase      phase
	generation int

	markers []string

	hoveredRoom string
	hoverSeq    int
	hoverClear  *time.Timer
	fallback    *time.Timer
}

// New creates a session for one viewer. Surface and broadcaster may be
// nil; every operation degrades to a no-op until both are attached.
func New(surface Surface, broadcaster Broadcaster, activity *lockactivity.Dataset,
	classify Classifier, cfg config.MapConfig, logger *logging.Logger) *Session {
	return &Session{
		surface:         surface,
		broadcaster:     broadcaster,
		activity:        activity,
		classify:        classify,
		logger:          logger,
		worldCenter:     floorplan.Position{cfg.WorldView.Longitude, cfg.WorldView.Latitude},
		worldZoom:       cfg.WorldView.Zoom,
		fitPadding:      cfg.FitPadding,
		fitFallback:     cfg.FitFallback,
		hoverClearDelay: cfg.HoverClearDelay,
		defaultHour:     cfg.DefaultHour,
		hour:            cfg.DefaultHour,
	}
}

// SelectFloor switches the session to floor, or to the world view when
// floor is nil. Everything belonging to the previous floor is removed
// before the transition; layer and marker setup for the new floor waits
// for the camera fit to complete.
func (s *Session) SelectFloor(floor *floorplan.Floor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil {
		return
	}

	s.generation++
	s.cancelTimersLocked()
	s.clearFloorLocked()
	s.floor = floor
	s.hoveredRoom = ""

	if floor == nil {
		s.phase = phaseIdle
		s.surface.ClearConstraints()
		s.surface.FlyTo(s.worldCenter, s.worldZoom)
		s.emit(EventFloorChanged, map[string]any{"floor_id": nil})
		return
	}

	bounds, ok := floor.Bounds()
	if !ok {
		s.phase = phaseIdle
		if s.logger != nil {
			s.logger.Warn("floor has no geometry", "floor_id", floor.ID)
		}
		return
	}

	s.phase = phaseFittingBounds
	gen := s.generation
	s.surface.ClearConstraints()
	s.surface.FitBounds(bounds, s.fitPadding, func() {
		s.finishFit(gen, floor, bounds)
	})
	if s.fitFallback > 0 {
		s.fallback = time.AfterFunc(s.fitFallback, func() {
			s.finishFit(gen, floor, bounds)
		})
	}
	s.emit(EventFloorChanged, map[string]any{"floor_id": floor.ID})
}

// finishFit attaches layers and markers once the camera settles. It is
// idempotent per generation: a stale completion, or a second signal for
// the same fit, does nothing.
func (s *Session) finishFit(gen int, floor *floorplan.Floor, bounds floorplan.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.phase != phaseFittingBounds {
		return
	}
	if s.fallback != nil {
		s.fallback.Stop()
		s.fallback = nil
	}

	s.surface.AddSource(SourceFloorData, floor.Data)
	s.surface.AddLayer(Layer{
		ID:     LayerFloorFill,
		Type:   "fill",
		Source: SourceFloorData,
		Paint: map[string]any{
			"fill-color":   "#d9e2ec",
			"fill-opacity": 0.6,
		},
	})
	s.surface.AddLayer(Layer{
		ID:     LayerFloorOutline,
		Type:   "line",
		Source: SourceFloorData,
		Paint: map[string]any{
			"line-color": "#486581",
			"line-width": 2,
		},
	})

	s.surface.AddSource(SourceHighlightedRoom, emptyCollection())
	s.surface.AddLayer(Layer{
		ID:     LayerHighlight,
		Type:   "fill",
		Source: SourceHighlightedRoom,
		Paint: map[string]any{
			"fill-color":   "#627bc1",
			"fill-opacity": 0.5,
		},
	})

	if s.activity != nil {
		s.surface.AddSource(SourceLocks, s.activity.GeoJSON())
		s.surface.AddLayer(Layer{
			ID:     LayerLockCircles,
			Type:   "circle",
			Source: SourceLocks,
			Paint: map[string]any{
				"circle-radius": []any{
					"interpolate", []any{"linear"}, []any{"get", "intensity"},
					1, 10,
					10, 30,
				},
				"circle-color": []any{
					"interpolate", []any{"linear"}, []any{"get", "intensity"},
					1, "#28a745",
					5, "#FFD966",
					10, "#ff0000",
				},
				"circle-stroke-color": "#ffffff",
				"circle-stroke-width": 1,
				"circle-opacity":      0.8,
			},
			Layout: map[string]any{"visibility": visibility(s.overlayVisible)},
			Filter: hourFilter(s.hour, floor.ID),
		})
	}

	s.regenMarkersLocked()

	s.surface.SetMaxBounds(bounds)
	s.surface.SetMinZoom(s.surface.Zoom() - 0.5)
	s.phase = phaseLayersReady
}

// SetOverlayVisible toggles the lock-activity circle layer. Turning the
// overlay on resets the hour filter to the configured default.
func (s *Session) SetOverlayVisible(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlayVisible = on
	if on {
		s.hour = s.defaultHour
	}
	if s.surface == nil || !s.surface.HasLayer(LayerLockCircles) {
		return
	}
	s.surface.SetLayerVisibility(LayerLockCircles, on)
	if on && s.floor != nil {
		s.surface.SetFilter(LayerLockCircles, hourFilter(s.hour, s.floor.ID))
	}
}

// SetHour re-filters the activity circles to hour h. Out-of-range hours
// and an absent layer are ignored.
func (s *Session) SetHour(h int) {
	if h < 0 || h > 23 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hour = h
	if s.surface == nil || s.floor == nil || !s.surface.HasLayer(LayerLockCircles) {
		return
	}
	s.surface.SetFilter(LayerLockCircles, hourFilter(h, s.floor.ID))
}

// SetDisplayMode switches room-name labels on markers and regenerates
// the marker set.
func (s *Session) SetDisplayMode(showNames bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.showNames = showNames
	if s.phase == phaseLayersReady {
		s.regenMarkersLocked()
	}
}

// SetConferenceOnly restricts markers to rentable rooms and regenerates
// the marker set.
func (s *Session) SetConferenceOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conferenceOnly = on
	if s.phase == phaseLayersReady {
		s.regenMarkersLocked()
	}
}

// HoverRoom raises the room polygon into the highlight layer and emits
// a hover event with projected screen coordinates. A pending hover
// clear is cancelled so moving between markers never flickers.
func (s *Session) HoverRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil || s.floor == nil || s.phase != phaseLayersReady {
		return
	}
	feature, ok := s.floor.Room(roomID)
	if !ok {
		return
	}

	s.hoverSeq++
	if s.hoverClear != nil {
		s.hoverClear.Stop()
		s.hoverClear = nil
	}

	s.hoveredRoom = roomID
	if s.surface.HasSource(SourceHighlightedRoom) {
		s.surface.SetSourceData(SourceHighlightedRoom, floorplan.FeatureCollection{
			Type:     "FeatureCollection",
			Features: []floorplan.Feature{*feature},
		})
	}

	x, y := s.surface.Project(feature.Centroid())
	payload := map[string]any{
		"room_id": roomID,
		"name":    feature.Properties.Name,
		"x":       x,
		"y":       y,
	}
	if s.classify != nil {
		payload["color"] = s.classify(feature.Properties).Color()
	}
	s.emit(EventRoomHovered, payload)
}

// LeaveRoom schedules the hover highlight to clear after the debounce
// delay. A re-hover before the timer fires cancels the clear.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil || s.hoveredRoom == "" {
		return
	}

	s.hoverSeq++
	seq := s.hoverSeq
	gen := s.generation
	if s.hoverClear != nil {
		s.hoverClear.Stop()
	}
	s.hoverClear = time.AfterFunc(s.hoverClearDelay, func() {
		s.clearHover(gen, seq)
	})
}

func (s *Session) clearHover(gen, seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || seq != s.hoverSeq {
		return
	}
	s.hoverClear = nil
	s.hoveredRoom = ""
	if s.surface != nil && s.surface.HasSource(SourceHighlightedRoom) {
		s.surface.SetSourceData(SourceHighlightedRoom, emptyCollection())
	}
	s.emit(EventRoomHoverCleared, map[string]any{})
}

// ClickRoom emits a selection event carrying the room's display
// attributes and the click's screen coordinates.
func (s *Session) ClickRoom(roomID string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.floor == nil {
		return
	}
	feature, ok := s.floor.Room(roomID)
	if !ok {
		return
	}

	payload := map[string]any{
		"room_id":         roomID,
		"name":            feature.Properties.Name,
		"rentable":        feature.Properties.Rentable,
		"rented":          feature.Properties.Rented,
		"approval_needed": feature.Properties.ApprovalNeeded,
		"x":               x,
		"y":               y,
	}
	if s.classify != nil {
		payload["color"] = s.classify(feature.Properties).Color()
	}
	s.emit(EventRoomSelected, payload)
}

// State is a point-in-time snapshot of session state.
type State struct {
	FloorID        string `json:"floor_id,omitempty"`
	Hour           int    `json:"hour"`
	OverlayVisible bool   `json:"overlay_visible"`
	ShowNames      bool   `json:"show_names"`
	ConferenceOnly bool   `json:"conference_only"`
	Phase          string `json:"phase"`
	HoveredRoom    string `json:"hovered_room,omitempty"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Hour:           s.hour,
		OverlayVisible: s.overlayVisible,
		ShowNames:      s.showNames,
		ConferenceOnly: s.conferenceOnly,
		Phase:          s.phase.String(),
		HoveredRoom:    s.hoveredRoom,
	}
	if s.floor != nil {
		st.FloorID = s.floor.ID
	}
	return st
}

// Close tears down the session's floor state and stops timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.cancelTimersLocked()
	if s.surface != nil {
		s.clearFloorLocked()
		s.surface.ClearConstraints()
	}
	s.floor = nil
	s.phase = phaseIdle
}

// clearFloorLocked removes every layer, source and marker belonging to
// the current floor. Existence-guarded so a partial setup tears down
// cleanly.
func (s *Session) clearFloorLocked() {
	for _, handle := range s.markers {
		s.surface.RemoveMarker(handle)
	}
	s.markers = nil

	for _, id := range []string{LayerLockCircles, LayerHighlight, LayerFloorOutline, LayerFloorFill} {
		if s.surface.HasLayer(id) {
			s.surface.RemoveLayer(id)
		}
	}
	for _, id := range []string{SourceLocks, SourceHighlightedRoom, SourceFloorData} {
		if s.surface.HasSource(id) {
			s.surface.RemoveSource(id)
		}
	}
}

// regenMarkersLocked replaces the marker set under the current display
// toggles. One marker per room polygon, placed at the centroid, colored
// by classification.
func (s *Session) regenMarkersLocked() {
	for _, handle := range s.markers {
		s.surface.RemoveMarker(handle)
	}
	s.markers = nil

	if s.floor == nil {
		return
	}
	for i := range s.floor.Data.Features {
		feature := &s.floor.Data.Features[i]
		if s.conferenceOnly && !feature.Properties.Rentable {
			continue
		}

		color := booking.Available.Color()
		if s.classify != nil {
			color = s.classify(feature.Properties).Color()
		}
		handle := s.surface.AddMarker(Marker{
			RoomID:   feature.Properties.RoomID,
			Name:     feature.Properties.Name,
			Position: feature.Centroid(),
			Color:    color,
			ShowName: s.showNames,
		})
		s.markers = append(s.markers, handle)
	}
}

func (s *Session) cancelTimersLocked() {
	if s.hoverClear != nil {
		s.hoverClear.Stop()
		s.hoverClear = nil
	}
	if s.fallback != nil {
		s.fallback.Stop()
		s.fallback = nil
	}
}

// emit delivers an event if a broadcaster is attached.
func (s *Session) emit(event string, payload any) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event, payload)
	}
}

func hourFilter(hour int, floorID string) []any {
	return []any{
		"all",
		[]any{"==", []any{"get", "hour"}, hour},
		[]any{"==", []any{"get", "floor"}, floorID},
	}
}

func visibility(on bool) string {
	if on {
		return "visible"
	}
	return "none"
}

func emptyCollection() floorplan.FeatureCollection {
	return floorplan.FeatureCollection{Type: "FeatureCollection"}
}
