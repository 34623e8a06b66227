// Package booking provides the room booking and access-log data feeding
// marker classification.
//
// There is no real booking backend: a mock http.RoundTripper answers the
// two booking endpoints in-process from fixed records, and Client fetches
// through it exactly as it would through a live service. Classify turns
// a room's booking and access history into a visual state for rendering.
package booking
