package booking

import "time"

// Booking is a single room reservation.
//
// JSON names match the booking service's wire format.
type Booking struct {
	BookingID string    `json:"bookingId"`
	RoomID    string    `json:"roomId"`
	RoomName  string    `json:"roomName"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Covers reports whether the booking window contains t.
// The window is half-open: start inclusive, end exclusive.
func (b Booking) Covers(t time.Time) bool {
	return !t.Before(b.StartTime) && t.Before(b.EndTime)
}

// AccessLogEntry is one recorded entry attempt at a room's lock.
type AccessLogEntry struct {
	RoomID            string    `json:"roomId"`
	UserID            string    `json:"userId"`
	UserName          string    `json:"userName"`
	AccessAttemptTime time.Time `json:"accessAttemptTime"`
	AccessStatus      string    `json:"accessStatus"`
}

// bookingsEnvelope is the wire shape of GET /api/bookings.
type bookingsEnvelope struct {
	MockBookings []Booking `json:"mockBookings"`
}

// accessLogsEnvelope is the wire shape of GET /api/room-access-logs.
type accessLogsEnvelope struct {
	MockRoomAccessLogs []AccessLogEntry `json:"mockRoomAccessLogs"`
}
