// Package lockactivity generates the decorative per-hour lock activity
// samples rendered by the map's time-series overlay.
//
// Samples are produced at startup from the floor catalog's room
// centroids and held in memory only; they are regenerated on every boot
// and optionally mirrored to InfluxDB for history.
package lockactivity
