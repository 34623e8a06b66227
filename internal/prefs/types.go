package prefs

import (
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is stamped on every record so future preference shapes
// can migrate old rows in place.
const SchemaVersion = 1

// PlaceholderTime renders for an unset side of the opening hours.
const PlaceholderTime = "??:??"

// NotSpecified renders when a room has no hours at all.
const NotSpecified = "Not specified"

// NotifyMode controls when entry alerts are published for a room.
type NotifyMode string

const (
	// NotifyOff publishes nothing.
	NotifyOff NotifyMode = "off"

	// NotifyAfterHours publishes only for entries outside the room's
	// saved hours. With no saved hours every entry counts.
	NotifyAfterHours NotifyMode = "afterHours"

	// NotifyAlways publishes for every entry.
	NotifyAlways NotifyMode = "always"
)

// Valid reports whether m is one of the known modes.
func (m NotifyMode) Valid() bool {
	switch m {
	case NotifyOff, NotifyAfterHours, NotifyAlways:
		return true
	}
	return false
}

// Side identifies which half of the opening hours a wizard pick sets.
type Side string

const (
	SideOpening Side = "opening"
	SideClosing Side = "closing"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideOpening {
		return SideClosing
	}
	return SideOpening
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideOpening || s == SideClosing
}

// Record is the stored preference state for one room.
type Record struct {
	Slug          string     `json:"slug"`
	OpeningTime   string     `json:"opening_time"`
	ClosingTime   string     `json:"closing_time"`
	NotifyMode    NotifyMode `json:"notify_mode"`
	SchemaVersion int        `json:"schema_version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HoursString renders the record's hours as "<open> - <close>", with
// placeholders for unset sides. A record with neither side set renders
// as NotSpecified.
func (r *Record) HoursString() string {
	if r == nil || (r.OpeningTime == "" && r.ClosingTime == "") {
		return NotSpecified
	}
	open := r.OpeningTime
	if open == "" {
		open = PlaceholderTime
	}
	closing := r.ClosingTime
	if closing == "" {
		closing = PlaceholderTime
	}
	return fmt.Sprintf("%s - %s", open, closing)
}

// Slugify normalises a room name into its preference key: lowercase
// with every whitespace run collapsed to a single underscore.
func Slugify(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}
