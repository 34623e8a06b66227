package mapsession

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lastlock/lockmap-core/internal/booking"
	"github.com/lastlock/lockmap-core/internal/floorplan"
	"github.com/lastlock/lockmap-core/internal/infrastructure/config"
	"github.com/lastlock/lockmap-core/internal/lockactivity"
)

// fakeSurface records every operation so tests can assert on the exact
// sequence and the surviving layer/source/marker set.
type fakeSurface struct {
	mu sync.Mutex

	sources map[string]any
	layers  map[string]Layer
	filters map[string][]any
	visible map[string]bool
	markers map[string]Marker
	nextID  int

	fitBounds  floorplan.Bounds
	fitPadding int
	fitDone    func()
	fitCalls   int

	flyCenter floorplan.Position
	flyZoom   float64
	flyCalls  int

	maxBounds      *floorplan.Bounds
	minZoom        *float64
	clearedCalls   int
	currentZoom    float64
	sourceDataSets map[string]any
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		sources:        make(map[string]any),
		layers:         make(map[string]Layer),
		filters:        make(map[string][]any),
		visible:        make(map[string]bool),
		markers:        make(map[string]Marker),
		sourceDataSets: make(map[string]any),
		currentZoom:    17.5,
	}
}

func (f *fakeSurface) AddSource(id string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[id] = data
}

func (f *fakeSurface) RemoveSource(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sources, id)
}

func (f *fakeSurface) HasSource(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sources[id]
	return ok
}

func (f *fakeSurface) SetSourceData(id string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceDataSets[id] = data
}

func (f *fakeSurface) AddLayer(layer Layer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.layers[layer.ID] = layer
	if layer.Filter != nil {
		f.filters[layer.ID] = layer.Filter
	}
}

func (f *fakeSurface) RemoveLayer(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.layers, id)
	delete(f.filters, id)
}

func (f *fakeSurface) HasLayer(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.layers[id]
	return ok
}

func (f *fakeSurface) SetFilter(layerID string, filter []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters[layerID] = filter
}

func (f *fakeSurface) SetLayerVisibility(layerID string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible[layerID] = visible
}

func (f *fakeSurface) AddMarker(m Marker) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	handle := fmt.Sprintf("marker-%d", f.nextID)
	f.markers[handle] = m
	return handle
}

func (f *fakeSurface) RemoveMarker(handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.markers, handle)
}

func (f *fakeSurface) FitBounds(b floorplan.Bounds, padding int, done func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fitBounds = b
	f.fitPadding = padding
	f.fitDone = done
	f.fitCalls++
}

func (f *fakeSurface) FlyTo(center floorplan.Position, zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flyCenter = center
	f.flyZoom = zoom
	f.flyCalls++
}

func (f *fakeSurface) SetMaxBounds(b floorplan.Bounds) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxBounds = &b
}

func (f *fakeSurface) SetMinZoom(zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minZoom = &zoom
}

func (f *fakeSurface) ClearConstraints() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxBounds = nil
	f.minZoom = nil
	f.clearedCalls++
}

func (f *fakeSurface) Zoom() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentZoom
}

func (f *fakeSurface) Project(p floorplan.Position) (float64, float64) {
	return p.Lng() * 10, p.Lat() * 10
}

// completeFit fires the captured fit callback, simulating camera idle.
func (f *fakeSurface) completeFit(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	done := f.fitDone
	f.mu.Unlock()
	if done == nil {
		t.Fatal("no pending fit callback")
	}
	done()
}

func (f *fakeSurface) markerSnapshot() []Marker {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Marker, 0, len(f.markers))
	for _, m := range f.markers {
		out = append(out, m)
	}
	return out
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []struct {
		Event   string
		Payload any
	}
}

func (b *fakeBroadcaster) Broadcast(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, struct {
		Event   string
		Payload any
	}{event, payload})
}

func (b *fakeBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (b *fakeBroadcaster) last(event string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Event == event {
			return b.events[i].Payload, true
		}
	}
	return nil, false
}

func testMapConfig() config.MapConfig {
	return config.MapConfig{
		WorldView:       config.WorldViewConfig{Longitude: -100, Latitude: 40, Zoom: 2.9},
		FitPadding:      50,
		HoverClearDelay: 20 * time.Millisecond,
		DefaultHour:     12,
	}
}

func testSession(t *testing.T) (*Session, *fakeSurface, *fakeBroadcaster, *floorplan.Catalog) {
	t.Helper()

	catalog, err := floorplan.Load()
	if err != nil {
		t.Fatalf("loading floor catalog: %v", err)
	}
	activity := lockactivity.Generate(catalog, "The Sett", rand.New(rand.NewSource(1)))

	surface := newFakeSurface()
	broadcaster := &fakeBroadcaster{}
	classify := func(_ floorplan.RoomProperties) booking.VisualState {
		return booking.Available
	}

	sess := New(surface, broadcaster, activity, classify, testMapConfig(), nil)
	return sess, surface, broadcaster, catalog
}

func mustFloor(t *testing.T, catalog *floorplan.Catalog, id string) *floorplan.Floor {
	t.Helper()
	floor, ok := catalog.Floor(id)
	if !ok {
		t.Fatalf("catalog missing floor %s", id)
	}
	return floor
}

func TestSelectFloor_AttachesLayersAfterFit(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	floor := mustFloor(t, catalog, "UNION_SOUTH_I")

	sess.SelectFloor(floor)

	if surface.fitCalls != 1 || surface.fitPadding != 50 {
		t.Fatalf("FitBounds calls = %d padding = %d, want 1 call with padding 50",
			surface.fitCalls, surface.fitPadding)
	}
	if surface.HasLayer(LayerFloorFill) {
		t.Fatal("layers attached before fit completed")
	}
	if sess.Snapshot().Phase != "fitting_bounds" {
		t.Errorf("phase = %s, want fitting_bounds", sess.Snapshot().Phase)
	}

	surface.completeFit(t)

	for _, id := range []string{LayerFloorFill, LayerFloorOutline, LayerHighlight, LayerLockCircles} {
		if !surface.HasLayer(id) {
			t.Errorf("layer %s missing after fit completion", id)
		}
	}
	for _, id := range []string{SourceFloorData, SourceHighlightedRoom, SourceLocks} {
		if !surface.HasSource(id) {
			t.Errorf("source %s missing after fit completion", id)
		}
	}
	if got := len(surface.markerSnapshot()); got != len(floor.Data.Features) {
		t.Errorf("marker count = %d, want %d", got, len(floor.Data.Features))
	}
	if surface.maxBounds == nil {
		t.Error("max bounds not locked to the fitted floor")
	}
	if surface.minZoom == nil || *surface.minZoom != surface.currentZoom-0.5 {
		t.Errorf("min zoom = %v, want %v", surface.minZoom, surface.currentZoom-0.5)
	}
	if sess.Snapshot().Phase != "layers_ready" {
		t.Errorf("phase = %s, want layers_ready", sess.Snapshot().Phase)
	}
}

func TestSelectFloor_SwitchLeavesNoStaleState(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	lower := mustFloor(t, catalog, "UNION_SOUTH_I")
	fourth := mustFloor(t, catalog, "UNION_SOUTH_IV")

	sess.SelectFloor(lower)
	surface.completeFit(t)

	sess.SelectFloor(fourth)
	if surface.HasLayer(LayerFloorFill) || surface.HasSource(SourceFloorData) {
		t.Fatal("previous floor's layers survived into the transition")
	}
	if len(surface.markerSnapshot()) != 0 {
		t.Fatal("previous floor's markers survived into the transition")
	}

	surface.completeFit(t)
	if got := len(surface.markerSnapshot()); got != len(fourth.Data.Features) {
		t.Errorf("marker count = %d, want %d for the new floor", got, len(fourth.Data.Features))
	}
	if sess.Snapshot().FloorID != "UNION_SOUTH_IV" {
		t.Errorf("floor = %s, want UNION_SOUTH_IV", sess.Snapshot().FloorID)
	}
}

func TestSelectFloor_StaleFitCompletionIgnored(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	lower := mustFloor(t, catalog, "UNION_SOUTH_I")
	fourth := mustFloor(t, catalog, "UNION_SOUTH_IV")

	sess.SelectFloor(lower)
	surface.mu.Lock()
	staleDone := surface.fitDone
	surface.mu.Unlock()

	sess.SelectFloor(fourth)
	staleDone()

	if surface.HasLayer(LayerFloorFill) {
		t.Fatal("stale fit completion attached the abandoned floor's layers")
	}
	if sess.Snapshot().Phase != "fitting_bounds" {
		t.Errorf("phase = %s, want fitting_bounds for the active transition", sess.Snapshot().Phase)
	}

	surface.completeFit(t)
	if got := len(surface.markerSnapshot()); got != len(fourth.Data.Features) {
		t.Errorf("marker count = %d, want %d", got, len(fourth.Data.Features))
	}
}

func TestSelectFloor_NilResetsToWorldView(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	floor := mustFloor(t, catalog, "UNION_SOUTH_I")

	sess.SelectFloor(floor)
	surface.completeFit(t)

	sess.SelectFloor(nil)

	if surface.maxBounds != nil || surface.minZoom != nil {
		t.Error("viewport constraints not cleared")
	}
	if surface.flyCalls != 1 {
		t.Fatalf("FlyTo calls = %d, want 1", surface.flyCalls)
	}
	if surface.flyCenter != (floorplan.Position{-100, 40}) || surface.flyZoom != 2.9 {
		t.Errorf("FlyTo(%v, %v), want world view ([-100 40], 2.9)", surface.flyCenter, surface.flyZoom)
	}
	if surface.HasLayer(LayerFloorFill) || surface.HasSource(SourceFloorData) {
		t.Error("floor layers survived the reset")
	}
	if len(surface.markerSnapshot()) != 0 {
		t.Error("markers survived the reset")
	}
}

func TestSelectFloor_FallbackCompletesFit(t *testing.T) {
	catalog, err := floorplan.Load()
	if err != nil {
		t.Fatalf("loading floor catalog: %v", err)
	}
	surface := newFakeSurface()
	cfg := testMapConfig()
	cfg.FitFallback = 10 * time.Millisecond

	sess := New(surface, &fakeBroadcaster{}, nil, nil, cfg, nil)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))

	deadline := time.Now().Add(time.Second)
	for sess.Snapshot().Phase != "layers_ready" {
		if time.Now().After(deadline) {
			t.Fatal("fallback timer never completed the fit")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !surface.HasLayer(LayerFloorFill) {
		t.Error("layers missing after fallback completion")
	}
}

func TestSetHour_RefiltersCircles(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.SetHour(15)

	surface.mu.Lock()
	filter := surface.filters[LayerLockCircles]
	surface.mu.Unlock()

	want := hourFilter(15, "UNION_SOUTH_I")
	if fmt.Sprint(filter) != fmt.Sprint(want) {
		t.Errorf("filter = %v, want %v", filter, want)
	}
	if sess.Snapshot().Hour != 15 {
		t.Errorf("hour = %d, want 15", sess.Snapshot().Hour)
	}
}

func TestSetHour_OutOfRangeIgnored(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.SetHour(15)
	sess.SetHour(24)
	sess.SetHour(-1)

	if got := sess.Snapshot().Hour; got != 15 {
		t.Errorf("hour = %d, want 15 after out-of-range inputs", got)
	}
}

func TestSetOverlayVisible_ResetsHourOnEnable(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.SetHour(18)
	sess.SetOverlayVisible(true)

	if got := sess.Snapshot().Hour; got != 12 {
		t.Errorf("hour = %d, want reset to 12 when overlay turns on", got)
	}

	surface.mu.Lock()
	visible := surface.visible[LayerLockCircles]
	filter := surface.filters[LayerLockCircles]
	surface.mu.Unlock()

	if !visible {
		t.Error("circle layer not made visible")
	}
	want := hourFilter(12, "UNION_SOUTH_I")
	if fmt.Sprint(filter) != fmt.Sprint(want) {
		t.Errorf("filter = %v, want %v", filter, want)
	}

	sess.SetOverlayVisible(false)
	surface.mu.Lock()
	visible = surface.visible[LayerLockCircles]
	surface.mu.Unlock()
	if visible {
		t.Error("circle layer still visible after overlay turned off")
	}
}

func TestSetDisplayMode_ToggleTwiceRestoresMarkers(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	floor := mustFloor(t, catalog, "UNION_SOUTH_I")
	sess.SelectFloor(floor)
	surface.completeFit(t)

	before := surface.markerSnapshot()

	sess.SetDisplayMode(true)
	sess.SetDisplayMode(false)

	after := surface.markerSnapshot()
	if len(after) != len(before) {
		t.Fatalf("marker count = %d, want %d after toggling twice", len(after), len(before))
	}

	positions := make(map[floorplan.Position]bool, len(before))
	for _, m := range before {
		positions[m.Position] = true
	}
	for _, m := range after {
		if !positions[m.Position] {
			t.Errorf("marker at %v not present in the original set", m.Position)
		}
	}
}

func TestSetConferenceOnly_FiltersToRentable(t *testing.T) {
	sess, surface, _, catalog := testSession(t)
	floor := mustFloor(t, catalog, "UNION_SOUTH_IV")
	sess.SelectFloor(floor)
	surface.completeFit(t)

	sess.SetConferenceOnly(true)

	rentable := 0
	for _, feat := range floor.Data.Features {
		if feat.Properties.Rentable {
			rentable++
		}
	}
	if got := len(surface.markerSnapshot()); got != rentable {
		t.Errorf("marker count = %d, want %d rentable rooms", got, rentable)
	}
	for _, m := range surface.markerSnapshot() {
		room, ok := floor.Room(m.RoomID)
		if !ok || !room.Properties.Rentable {
			t.Errorf("marker %s is not a rentable room", m.RoomID)
		}
	}

	sess.SetConferenceOnly(false)
	if got := len(surface.markerSnapshot()); got != len(floor.Data.Features) {
		t.Errorf("marker count = %d, want %d after disabling the filter", got, len(floor.Data.Features))
	}
}

func TestHoverRoom_HighlightsAndEmits(t *testing.T) {
	sess, surface, broadcaster, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.HoverRoom("R007")

	surface.mu.Lock()
	data, ok := surface.sourceDataSets[SourceHighlightedRoom].(floorplan.FeatureCollection)
	surface.mu.Unlock()
	if !ok || len(data.Features) != 1 {
		t.Fatalf("highlight source data = %v, want one feature", data)
	}
	if data.Features[0].Properties.RoomID != "R007" {
		t.Errorf("highlighted room = %s, want R007", data.Features[0].Properties.RoomID)
	}

	payload, ok := broadcaster.last(EventRoomHovered)
	if !ok {
		t.Fatal("room.hovered event not emitted")
	}
	fields := payload.(map[string]any)
	if fields["room_id"] != "R007" {
		t.Errorf("event room_id = %v, want R007", fields["room_id"])
	}
	if fields["color"] != booking.Available.Color() {
		t.Errorf("event color = %v, want %s", fields["color"], booking.Available.Color())
	}
}

func TestLeaveRoom_ClearsAfterDebounce(t *testing.T) {
	sess, surface, broadcaster, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.HoverRoom("R007")
	sess.LeaveRoom()

	deadline := time.Now().Add(time.Second)
	for broadcaster.count(EventRoomHoverCleared) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("hover clear never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	surface.mu.Lock()
	data := surface.sourceDataSets[SourceHighlightedRoom].(floorplan.FeatureCollection)
	surface.mu.Unlock()
	if len(data.Features) != 0 {
		t.Error("highlight source not emptied after debounce")
	}
	if sess.Snapshot().HoveredRoom != "" {
		t.Error("hovered room not cleared")
	}
}

func TestHoverRoom_ReHoverCancelsPendingClear(t *testing.T) {
	sess, surface, broadcaster, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_I"))
	surface.completeFit(t)

	sess.HoverRoom("R007")
	sess.LeaveRoom()
	sess.HoverRoom("R006")

	time.Sleep(60 * time.Millisecond)

	if n := broadcaster.count(EventRoomHoverCleared); n != 0 {
		t.Errorf("hover_cleared fired %d times, want 0 after re-hover", n)
	}
	if got := sess.Snapshot().HoveredRoom; got != "R006" {
		t.Errorf("hovered room = %s, want R006", got)
	}
}

func TestClickRoom_EmitsSelection(t *testing.T) {
	sess, surface, broadcaster, catalog := testSession(t)
	sess.SelectFloor(mustFloor(t, catalog, "UNION_SOUTH_IV"))
	surface.completeFit(t)

	sess.ClickRoom("R421", 320, 240)

	payload, ok := broadcaster.last(EventRoomSelected)
	if !ok {
		t.Fatal("room.selected event not emitted")
	}
	fields := payload.(map[string]any)
	if fields["room_id"] != "R421" {
		t.Errorf("room_id = %v, want R421", fields["room_id"])
	}
	if fields["rentable"] != true {
		t.Errorf("rentable = %v, want true", fields["rentable"])
	}
	if fields["x"] != 320.0 || fields["y"] != 240.0 {
		t.Errorf("coordinates = (%v, %v), want (320, 240)", fields["x"], fields["y"])
	}
}

func TestOperations_NoOpWithoutSurface(t *testing.T) {
	sess := New(nil, &fakeBroadcaster{}, nil, nil, testMapConfig(), nil)

	// None of these should panic.
	sess.SelectFloor(nil)
	sess.SetOverlayVisible(true)
	sess.SetHour(9)
	sess.SetDisplayMode(true)
	sess.SetConferenceOnly(true)
	sess.HoverRoom("R007")
	sess.LeaveRoom()
	sess.Close()
}
