package floorplan

// Position is a [longitude, latitude] pair, matching GeoJSON ordering.
type Position [2]float64

// Lng returns the longitude component.
func (p Position) Lng() float64 { return p[0] }

// Lat returns the latitude component.
func (p Position) Lat() float64 { return p[1] }

// Bounds is a rectangular geographic extent.
type Bounds struct {
	SouthWest Position `json:"sw"`
	NorthEast Position `json:"ne"`
}

// Extend grows the bounds to include p.
func (b *Bounds) Extend(p Position) {
	if p[0] < b.SouthWest[0] {
		b.SouthWest[0] = p[0]
	}
	if p[1] < b.SouthWest[1] {
		b.SouthWest[1] = p[1]
	}
	if p[0] > b.NorthEast[0] {
		b.NorthEast[0] = p[0]
	}
	if p[1] > b.NorthEast[1] {
		b.NorthEast[1] = p[1]
	}
}

// RoomProperties holds the per-room attributes carried on each feature.
//
// JSON names match the source dataset exactly; renderers and the booking
// service key off these strings.
type RoomProperties struct {
	Name           string `json:"Name"`
	RoomID         string `json:"RoomID,omitempty"`
	Rentable       bool   `json:"Rentable,omitempty"`
	Rented         bool   `json:"Rented,omitempty"`
	ApprovalNeeded bool   `json:"Approval_Needed,omitempty"`
}

// Geometry is a GeoJSON polygon. Only the "Polygon" type is used; the
// first ring is the exterior boundary.
type Geometry struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

// Feature is a single room polygon with its attributes.
type Feature struct {
	Type       string         `json:"type"`
	Properties RoomProperties `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// FeatureCollection is the GeoJSON container for a floor's rooms.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Floor is one selectable floor: a stable id, a display name, and the
// room geometry rendered when the floor is active.
type Floor struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Data FeatureCollection `json:"data"`
}

// Bounds returns the bounding box enclosing every room polygon on the
// floor. The second return is false when the floor has no geometry.
func (f *Floor) Bounds() (Bounds, bool) {
	first := true
	var b Bounds
	for _, feat := range f.Data.Features {
		for _, ring := range feat.Geometry.Coordinates {
			for _, p := range ring {
				if first {
					b = Bounds{SouthWest: p, NorthEast: p}
					first = false
					continue
				}
				b.Extend(p)
			}
		}
	}
	return b, !first
}

// Room returns the feature with the given RoomID.
func (f *Floor) Room(roomID string) (*Feature, bool) {
	for i := range f.Data.Features {
		if f.Data.Features[i].Properties.RoomID == roomID {
			return &f.Data.Features[i], true
		}
	}
	return nil, false
}

// Centroid returns the arithmetic mean of the feature's exterior ring
// vertices. The closing vertex is included when present, matching how
// marker positions have always been computed for this dataset.
func (ft *Feature) Centroid() Position {
	if len(ft.Geometry.Coordinates) == 0 || len(ft.Geometry.Coordinates[0]) == 0 {
		return Position{}
	}
	ring := ft.Geometry.Coordinates[0]
	var sumLng, sumLat float64
	for _, p := range ring {
		sumLng += p[0]
		sumLat += p[1]
	}
	n := float64(len(ring))
	return Position{sumLng / n, sumLat / n}
}
