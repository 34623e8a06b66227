package lockactivity

import (
	"math/rand"

	"github.com/lastlock/lockmap-core/internal/floorplan"
)

// Sample hour range. One sample is generated per room per hour.
const (
	FirstHour = 8
	LastHour  = 20
)

// Intensity ranges. Most rooms stay in the base range; the configured
// busy room skews hotter so the overlay has a visible hotspot.
const (
	baseMaxIntensity = 5
	busyMaxIntensity = 7
)

// Sample is one decorative activity reading at a room's centroid.
type Sample struct {
	Room      string             `json:"room"`
	Floor     string             `json:"floor"`
	Hour      int                `json:"hour"`
	Intensity int                `json:"intensity"`
	Position  floorplan.Position `json:"coordinates"`
}

// Dataset holds the generated samples for all floors.
// It is immutable after Generate and safe for concurrent reads.
type Dataset struct {
	samples []Sample
}

// Generate builds one sample per room per hour in [FirstHour, LastHour].
// Intensity is random in [1, 5], or [1, 7] for the named busy room.
// Pass a seeded rng for reproducible output in tests.
func Generate(catalog *floorplan.Catalog, busyRoom string, rng *rand.Rand) *Dataset {
	var samples []Sample
	for _, floor := range catalog.Floors() {
		for _, feat := range floor.Data.Features {
			maxIntensity := baseMaxIntensity
			if feat.Properties.Name == busyRoom {
				maxIntensity = busyMaxIntensity
			}
			centroid := feat.Centroid()
			for hour := FirstHour; hour <= LastHour; hour++ {
				samples = append(samples, Sample{
					Room:      feat.Properties.Name,
					Floor:     floor.ID,
					Hour:      hour,
					Intensity: 1 + rng.Intn(maxIntensity),
					Position:  centroid,
				})
			}
		}
	}
	return &Dataset{samples: samples}
}

// Samples returns every generated sample.
func (d *Dataset) Samples() []Sample {
	return d.samples
}

// FilterHour returns the samples whose hour equals h.
func (d *Dataset) FilterHour(h int) []Sample {
	var out []Sample
	for _, s := range d.samples {
		if s.Hour == h {
			out = append(out, s)
		}
	}
	return out
}

// GeoJSON renders the dataset as a point feature collection suitable
// for a map source. Hour, intensity and floor ride along as properties
// so layer filters can select by hour and floor.
func (d *Dataset) GeoJSON() map[string]any {
	features := make([]map[string]any, 0, len(d.samples))
	for _, s := range d.samples {
		features = append(features, map[string]any{
			"type": "Feature",
			"properties": map[string]any{
				"room":      s.Room,
				"floor":     s.Floor,
				"hour":      s.Hour,
				"intensity": s.Intensity,
			},
			"geometry": map[string]any{
				"type":        "Point",
				"coordinates": s.Position,
			},
		})
	}
	return map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
}
