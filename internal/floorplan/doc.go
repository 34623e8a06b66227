// Package floorplan provides the static floor catalog for Lockmap Core.
//
// Floor geometry ships embedded in the binary as GeoJSON-style feature
// collections: one collection per floor, one polygon feature per room.
// Room attributes (name, rentable flags) live on feature properties and
// drive marker colouring and the conference-room filter.
//
// The catalog is immutable after Load, so all methods are safe for
// concurrent use without locking.
package floorplan
