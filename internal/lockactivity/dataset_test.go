package lockactivity

import (
	"math/rand"
	"testing"

	"github.com/lastlock/lockmap-core/internal/floorplan"
)

func generateTestDataset(t *testing.T) (*floorplan.Catalog, *Dataset) {
	t.Helper()
	catalog, err := floorplan.Load()
	if err != nil {
		t.Fatalf("floorplan.Load() error = %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	return catalog, Generate(catalog, "The Sett", rng)
}

func TestGenerate_SampleCount(t *testing.T) {
	catalog, ds := generateTestDataset(t)

	roomCount := 0
	for _, f := range catalog.Floors() {
		roomCount += len(f.Data.Features)
	}

	hoursPerRoom := LastHour - FirstHour + 1
	want := roomCount * hoursPerRoom
	if got := len(ds.Samples()); got != want {
		t.Errorf("generated %d samples, want %d (%d rooms x %d hours)",
			got, want, roomCount, hoursPerRoom)
	}
}

func TestGenerate_IntensityRange(t *testing.T) {
	_, ds := generateTestDataset(t)

	for _, s := range ds.Samples() {
		maxAllowed := 5
		if s.Room == "The Sett" {
			maxAllowed = 7
		}
		if s.Intensity < 1 || s.Intensity > maxAllowed {
			t.Errorf("room %s hour %d intensity = %d, want 1..%d",
				s.Room, s.Hour, s.Intensity, maxAllowed)
		}
	}
}

func TestGenerate_HourRange(t *testing.T) {
	_, ds := generateTestDataset(t)

	seen := make(map[int]bool)
	for _, s := range ds.Samples() {
		if s.Hour < FirstHour || s.Hour > LastHour {
			t.Errorf("sample hour %d outside [%d, %d]", s.Hour, FirstHour, LastHour)
		}
		seen[s.Hour] = true
	}

	for h := FirstHour; h <= LastHour; h++ {
		if !seen[h] {
			t.Errorf("no samples generated for hour %d", h)
		}
	}
}

func TestDataset_FilterHour(t *testing.T) {
	catalog, ds := generateTestDataset(t)

	roomCount := 0
	for _, f := range catalog.Floors() {
		roomCount += len(f.Data.Features)
	}

	noon := ds.FilterHour(12)
	if len(noon) != roomCount {
		t.Errorf("FilterHour(12) returned %d samples, want %d", len(noon), roomCount)
	}
	for _, s := range noon {
		if s.Hour != 12 {
			t.Errorf("FilterHour(12) returned sample with hour %d", s.Hour)
		}
	}

	if got := ds.FilterHour(3); len(got) != 0 {
		t.Errorf("FilterHour(3) returned %d samples, want 0", len(got))
	}
}

func TestDataset_GeoJSON(t *testing.T) {
	_, ds := generateTestDataset(t)

	fc := ds.GeoJSON()
	if fc["type"] != "FeatureCollection" {
		t.Errorf("GeoJSON type = %v, want FeatureCollection", fc["type"])
	}

	features, ok := fc["features"].([]map[string]any)
	if !ok {
		t.Fatalf("GeoJSON features has unexpected type %T", fc["features"])
	}
	if len(features) != len(ds.Samples()) {
		t.Errorf("GeoJSON has %d features, want %d", len(features), len(ds.Samples()))
	}

	props, ok := features[0]["properties"].(map[string]any)
	if !ok {
		t.Fatalf("feature properties has unexpected type %T", features[0]["properties"])
	}
	for _, key := range []string{"room", "floor", "hour", "intensity"} {
		if _, present := props[key]; !present {
			t.Errorf("feature properties missing %q", key)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	catalog, err := floorplan.Load()
	if err != nil {
		t.Fatalf("floorplan.Load() error = %v", err)
	}

	a := Generate(catalog, "The Sett", rand.New(rand.NewSource(7)))
	b := Generate(catalog, "The Sett", rand.New(rand.NewSource(7)))

	if len(a.Samples()) != len(b.Samples()) {
		t.Fatalf("sample counts differ: %d vs %d", len(a.Samples()), len(b.Samples()))
	}
	for i := range a.Samples() {
		if a.Samples()[i] != b.Samples()[i] {
			t.Fatalf("sample %d differs between identically seeded runs", i)
		}
	}
}
