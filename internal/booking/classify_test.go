package booking

import (
	"testing"
	"time"

	"github.com/lastlock/lockmap-core/internal/floorplan"
)

var classifyRef = time.Date(2024, 10, 30, 9, 0, 0, 0, time.UTC)

func rentableRoom(id string) floorplan.RoomProperties {
	return floorplan.RoomProperties{Name: "Conference Room", RoomID: id, Rentable: true}
}

func TestClassify(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2024, 10, 30, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		room     floorplan.RoomProperties
		bookings []Booking
		logs     []AccessLogEntry
		want     VisualState
	}{
		{
			name: "non-rentable room ignores records",
			room: floorplan.RoomProperties{Name: "Truck Bay", RoomID: "R101"},
			bookings: []Booking{
				{RoomID: "R101", StartTime: at(8, 0), EndTime: at(10, 0)},
			},
			logs: []AccessLogEntry{
				{RoomID: "R101", AccessAttemptTime: at(9, 0)},
			},
			want: NonRentable,
		},
		{
			name: "booking covering ref with entry in window",
			room: rentableRoom("R421"),
			bookings: []Booking{
				{RoomID: "R421", StartTime: at(9, 0), EndTime: at(10, 0)},
			},
			logs: []AccessLogEntry{
				{RoomID: "R421", AccessAttemptTime: at(9, 5)},
			},
			want: BookedEntered,
		},
		{
			name: "booking covering ref without entry",
			room: rentableRoom("R422"),
			bookings: []Booking{
				{RoomID: "R422", StartTime: at(9, 0), EndTime: at(11, 0)},
			},
			want: BookedPending,
		},
		{
			name: "entry at ref with no booking",
			room: rentableRoom("R426"),
			logs: []AccessLogEntry{
				{RoomID: "R426", AccessAttemptTime: at(9, 0)},
			},
			want: UnauthorizedEntry,
		},
		{
			name: "booking starting within threshold",
			room: rentableRoom("R429"),
			bookings: []Booking{
				{RoomID: "R429", StartTime: at(9, 15), EndTime: at(10, 0)},
			},
			want: SoonBooked,
		},
		{
			name: "booking starting beyond threshold",
			room: rentableRoom("R429"),
			bookings: []Booking{
				{RoomID: "R429", StartTime: at(14, 0), EndTime: at(15, 0)},
			},
			want: Available,
		},
		{
			name: "no records at all",
			room: rentableRoom("R421"),
			want: Available,
		},
		{
			name: "booking for another room does not count",
			room: rentableRoom("R421"),
			bookings: []Booking{
				{RoomID: "R422", StartTime: at(9, 0), EndTime: at(10, 0)},
			},
			want: Available,
		},
		{
			name: "entry outside booking window leaves pending",
			room: rentableRoom("R421"),
			bookings: []Booking{
				{RoomID: "R421", StartTime: at(9, 0), EndTime: at(10, 0)},
			},
			logs: []AccessLogEntry{
				{RoomID: "R421", AccessAttemptTime: at(6, 30)},
			},
			want: BookedPending,
		},
		{
			name: "booking end is exclusive",
			room: rentableRoom("R421"),
			bookings: []Booking{
				{RoomID: "R421", StartTime: at(8, 0), EndTime: at(9, 0)},
			},
			want: Available,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.room, tt.bookings, tt.logs, classifyRef)
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisualState_Color(t *testing.T) {
	tests := []struct {
		state VisualState
		want  string
	}{
		{NonRentable, "#007bff"},
		{Available, "#28a745"},
		{BookedPending, "#FFD966"},
		{SoonBooked, "#FFD966"},
		{BookedEntered, "#ff0000"},
		{UnauthorizedEntry, "#FFA500"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.Color(); got != tt.want {
				t.Errorf("Color() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBooking_Covers(t *testing.T) {
	b := Booking{
		StartTime: time.Date(2024, 10, 30, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 10, 30, 10, 0, 0, 0, time.UTC),
	}

	if !b.Covers(b.StartTime) {
		t.Error("Covers(start) = false, want true (start inclusive)")
	}
	if b.Covers(b.EndTime) {
		t.Error("Covers(end) = true, want false (end exclusive)")
	}
	if !b.Covers(b.StartTime.Add(30 * time.Minute)) {
		t.Error("Covers(mid-window) = false, want true")
	}
}
