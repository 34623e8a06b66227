package api

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/lastlock/lockmap-core/internal/floorplan"
	"github.com/lastlock/lockmap-core/internal/mapsession"
)

// tileSize is the base pixel size of a web mercator tile at zoom 0.
const tileSize = 512.0

// wsSurface relays map operations to connected viewers as map.op events
// over the WebSocket hub. It tracks just enough state locally to answer
// the session's HasSource/HasLayer queries and to complete bounds fits
// when a viewer reports that its camera has settled.
type wsSurface struct {
	hub *Hub

	mu      sync.Mutex
	sources map[string]struct{}
	layers  map[string]struct{}
	markers map[string]struct{}
	zoom    float64

	// pendingFit holds the completion callback for an in-flight
	// FitBounds. Fired from CameraIdle on its own goroutine so the
	// session can re-acquire its lock.
	pendingFit func()
}

// newWSSurface creates a surface broadcasting through hub. worldZoom
// seeds the zoom value reported before any camera update has arrived.
func newWSSurface(hub *Hub, worldZoom float64) *wsSurface {
	return &wsSurface{
		hub:     hub,
		sources: make(map[string]struct{}),
		layers:  make(map[string]struct{}),
		markers: make(map[string]struct{}),
		zoom:    worldZoom,
	}
}

// emit broadcasts one map operation to subscribed viewers.
func (s *wsSurface) emit(op string, args map[string]any) {
	payload := map[string]any{"op": op}
	for k, v := range args {
		payload[k] = v
	}
	s.hub.Broadcast(mapsession.EventMapOp, payload)
}

func (s *wsSurface) AddSource(id string, data any) {
	s.mu.Lock()
	s.sources[id] = struct{}{}
	s.mu.Unlock()
	s.emit("add_source", map[string]any{"id": id, "data": data})
}

func (s *wsSurface) RemoveSource(id string) {
	s.mu.Lock()
	delete(s.sources, id)
	s.mu.Unlock()
	s.emit("remove_source", map[string]any{"id": id})
}

func (s *wsSurface) HasSource(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sources[id]
	return ok
}

func (s *wsSurface) SetSourceData(id string, data any) {
	s.emit("set_source_data", map[string]any{"id": id, "data": data})
}

func (s *wsSurface) AddLayer(layer mapsession.Layer) {
	s.mu.Lock()
	s.layers[layer.ID] = struct{}{}
	s.mu.Unlock()
	s.emit("add_layer", map[string]any{"layer": layer})
}

func (s *wsSurface) RemoveLayer(id string) {
	s.mu.Lock()
	delete(s.layers, id)
	s.mu.Unlock()
	s.emit("remove_layer", map[string]any{"id": id})
}

func (s *wsSurface) HasLayer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.layers[id]
	return ok
}

func (s *wsSurface) SetFilter(layerID string, filter []any) {
	s.emit("set_filter", map[string]any{"id": layerID, "filter": filter})
}

func (s *wsSurface) SetLayerVisibility(layerID string, visible bool) {
	s.emit("set_layer_visibility", map[string]any{"id": layerID, "visible": visible})
}

func (s *wsSurface) AddMarker(m mapsession.Marker) string {
	handle := uuid.New().String()
	s.mu.Lock()
	s.markers[handle] = struct{}{}
	s.mu.Unlock()
	s.emit("add_marker", map[string]any{"handle": handle, "marker": m})
	return handle
}

func (s *wsSurface) RemoveMarker(handle string) {
	s.mu.Lock()
	delete(s.markers, handle)
	s.mu.Unlock()
	s.emit("remove_marker", map[string]any{"handle": handle})
}

// FitBounds asks viewers to fit their camera to b. The done callback is
// held until a viewer reports move_end via CameraIdle; if a previous fit
// is still pending it is superseded without firing.
func (s *wsSurface) FitBounds(b floorplan.Bounds, padding int, done func()) {
	s.mu.Lock()
	s.pendingFit = done
	s.mu.Unlock()
	s.emit("fit_bounds", map[string]any{"bounds": b, "padding": padding})
}

func (s *wsSurface) FlyTo(center floorplan.Position, zoom float64) {
	s.emit("fly_to", map[string]any{"center": center, "zoom": zoom})
}

func (s *wsSurface) SetMaxBounds(b floorplan.Bounds) {
	s.emit("set_max_bounds", map[string]any{"bounds": b})
}

func (s *wsSurface) SetMinZoom(zoom float64) {
	s.emit("set_min_zoom", map[string]any{"zoom": zoom})
}

func (s *wsSurface) ClearConstraints() {
	s.emit("clear_constraints", nil)
}

func (s *wsSurface) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// Project converts a geographic position to screen-space pixels using
// the web mercator projection at the current zoom.
func (s *wsSurface) Project(p floorplan.Position) (float64, float64) {
	scale := tileSize * math.Pow(2, s.Zoom())
	x := scale * (p.Lng()/360 + 0.5)
	sinLat := math.Sin(p.Lat() * math.Pi / 180)
	y := scale * (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi))
	return x, y
}

// SetReportedZoom records the zoom level a viewer last reported.
func (s *wsSurface) SetReportedZoom(zoom float64) {
	s.mu.Lock()
	s.zoom = zoom
	s.mu.Unlock()
}

// CameraIdle completes a pending bounds fit. Safe to call when no fit
// is pending. The callback runs on a fresh goroutine because the
// session re-acquires its own lock inside it.
func (s *wsSurface) CameraIdle() {
	s.mu.Lock()
	done := s.pendingFit
	s.pendingFit = nil
	s.mu.Unlock()
	if done != nil {
		go done()
	}
}
