// Package prefs stores per-room preferences: opening hours and the
// entry notification mode.
//
// Records are keyed by room slug (lowercased name, whitespace runs
// collapsed to underscores) and persisted in SQLite so they survive
// restarts. Rooms without a record render placeholder hours; saving a
// preference creates the record on first write.
//
// Opening hours are captured through a two-step wizard: the first pick
// sets one side and arms the other, the second pick completes the pair
// and commits both in one write. Notification mode changes commit
// immediately.
package prefs
