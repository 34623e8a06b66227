package booking

import (
	"time"

	"github.com/lastlock/lockmap-core/internal/floorplan"
)

// SoonThreshold is how far ahead an upcoming booking still colours a
// room as soon-to-be-busy.
const SoonThreshold = 30 * time.Minute

// VisualState is the classification outcome for a room at the reference
// time. It determines marker colour on the map.
type VisualState int

const (
	// NonRentable rooms are informational only and never classified.
	NonRentable VisualState = iota

	// Available means rentable with no booking or entry at the
	// reference time.
	Available

	// BookedPending means a booking covers the reference time but
	// nobody has entered yet.
	BookedPending

	// BookedEntered means a booking covers the reference time and a
	// matching entry was recorded inside its window.
	BookedEntered

	// UnauthorizedEntry means someone entered at the reference time
	// with no booking behind it.
	UnauthorizedEntry

	// SoonBooked means no current booking but one starts within
	// SoonThreshold.
	SoonBooked
)

// Marker colours per visual state.
const (
	colorNeutral = "#007bff"
	colorGreen   = "#28a745"
	colorYellow  = "#FFD966"
	colorRed     = "#ff0000"
	colorOrange  = "#FFA500"
	colorUnknown = "#999999"
)

// String returns the state's wire name.
func (s VisualState) String() string {
	switch s {
	case NonRentable:
		return "non_rentable"
	case Available:
		return "available"
	case BookedPending:
		return "booked_pending"
	case BookedEntered:
		return "booked_entered"
	case UnauthorizedEntry:
		return "unauthorized_entry"
	case SoonBooked:
		return "soon_booked"
	default:
		return "unknown"
	}
}

// Color returns the marker colour for the state.
func (s VisualState) Color() string {
	switch s {
	case NonRentable:
		return colorNeutral
	case Available:
		return colorGreen
	case BookedPending, SoonBooked:
		return colorYellow
	case BookedEntered:
		return colorRed
	case UnauthorizedEntry:
		return colorOrange
	default:
		return colorUnknown
	}
}

// Classify determines a room's visual state at ref.
//
// Rules, in order:
//  1. Non-rentable rooms are NonRentable regardless of records.
//  2. A booking covering ref with an entry inside its window is
//     BookedEntered; without one it is BookedPending.
//  3. With no covering booking, an entry recorded at ref itself is
//     UnauthorizedEntry.
//  4. A booking starting within SoonThreshold after ref is SoonBooked.
//  5. Everything else is Available.
func Classify(room floorplan.RoomProperties, bookings []Booking, logs []AccessLogEntry, ref time.Time) VisualState {
	if !room.Rentable {
		return NonRentable
	}

	for _, b := range bookings {
		if b.RoomID != room.RoomID || !b.Covers(ref) {
			continue
		}
		for _, l := range logs {
			if l.RoomID == room.RoomID && b.Covers(l.AccessAttemptTime) {
				return BookedEntered
			}
		}
		return BookedPending
	}

	for _, l := range logs {
		if l.RoomID == room.RoomID && l.AccessAttemptTime.Equal(ref) {
			return UnauthorizedEntry
		}
	}

	for _, b := range bookings {
		if b.RoomID != room.RoomID {
			continue
		}
		lead := b.StartTime.Sub(ref)
		if lead > 0 && lead <= SoonThreshold {
			return SoonBooked
		}
	}

	return Available
}
