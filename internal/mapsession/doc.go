// Package mapsession owns per-viewer map state and drives an abstract
// rendering surface.
//
// A Session tracks the current floor, overlay toggles, the hour filter
// and transient hover state, and translates user intent into surface
// operations (sources, layers, markers, camera moves). Floor
// transitions run through a small state machine: Idle, FittingBounds
// while the camera animates to the floor's bounding box, LayersReady
// once layers and markers are attached. Fit completion is driven by an
// explicit callback from the surface, with a fallback timer in case
// the surface never reports completion; a generation counter discards
// stale completions from an abandoned transition.
//
// Every operation is a silent no-op when the surface is absent or a
// referenced layer or source does not exist. Callers never need to
// sequence against initialization.
package mapsession
