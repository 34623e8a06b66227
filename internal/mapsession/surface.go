package mapsession

import (
	"github.com/lastlock/lockmap-core/internal/floorplan"
)

// Source and layer ids used on the surface. Keeping these as named
// constants means a typo cannot orphan a layer across floor switches.
const (
	SourceFloorData       = "floor-data"
	LayerFloorFill        = "floor-layer"
	LayerFloorOutline     = "floor-outline"
	SourceHighlightedRoom = "highlighted-room"
	LayerHighlight        = "highlight-layer"
	SourceLocks           = "locks"
	LayerLockCircles      = "locks-circles"
)

// Event names emitted through the Broadcaster.
const (
	EventMapOp            = "map.op"
	EventRoomHovered      = "room.hovered"
	EventRoomHoverCleared = "room.hover_cleared"
	EventRoomSelected     = "room.selected"
	EventFloorChanged     = "session.floor_changed"
)

// Layer describes a style layer to attach to the surface.
type Layer struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Source string         `json:"source"`
	Paint  map[string]any `json:"paint,omitempty"`
	Layout map[string]any `json:"layout,omitempty"`
	Filter []any          `json:"filter,omitempty"`
}

// Marker describes a room marker placed at a polygon centroid.
type Marker struct {
	RoomID   string             `json:"room_id"`
	Name     string             `json:"name"`
	Position floorplan.Position `json:"position"`
	Color    string             `json:"color"`
	ShowName bool               `json:"show_name"`
}

// Surface is the abstract map widget a session drives. Implementations
// relay operations to a real renderer; the session never touches the
// renderer directly.
//
// FitBounds must invoke done exactly once when the camera settles,
// never synchronously from within the FitBounds call itself.
type Surface interface {
	AddSource(id string, data any)
	RemoveSource(id string)
	HasSource(id string) bool
	SetSourceData(id string, data any)

	AddLayer(layer Layer)
	RemoveLayer(id string)
	HasLayer(id string) bool
	SetFilter(layerID string, filter []any)
	SetLayerVisibility(layerID string, visible bool)

	AddMarker(m Marker) string
	RemoveMarker(handle string)

	FitBounds(b floorplan.Bounds, padding int, done func())
	FlyTo(center floorplan.Position, zoom float64)
	SetMaxBounds(b floorplan.Bounds)
	SetMinZoom(zoom float64)
	ClearConstraints()

	Zoom() float64
	Project(p floorplan.Position) (x, y float64)
}

// Broadcaster delivers session events to subscribers. The API layer's
// WebSocket hub satisfies it.
type Broadcaster interface {
	Broadcast(event string, payload any)
}
