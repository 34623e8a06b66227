package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Endpoint paths served by the mock transport.
const (
	BookingsPath   = "/api/bookings"
	AccessLogsPath = "/api/room-access-logs"
)

// MockTransport is an http.RoundTripper that answers the booking
// endpoints in-process from fixed records. Requests never leave the
// process; any path other than the two known endpoints gets a 404.
type MockTransport struct {
	bookings []Booking
	logs     []AccessLogEntry
}

// NewMockTransport builds a transport whose records are anchored to the
// day of ref. The dataset covers each classification outcome: a booking
// with a matching entry, a booking nobody has entered for, an entry with
// no booking behind it, and a booking starting shortly after ref.
func NewMockTransport(ref time.Time) *MockTransport {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	bookings := []Booking{
		{
			BookingID: "bk-1001",
			RoomID:    "R421",
			RoomName:  "Conference Room A",
			StartTime: at(9, 0),
			EndTime:   at(10, 0),
			UserID:    "u-301",
			UserName:  "Alice Johnson",
			CreatedBy: "admin",
			CreatedAt: at(8, 15),
		},
		{
			BookingID: "bk-1002",
			RoomID:    "R422",
			RoomName:  "Conference Room B",
			StartTime: at(9, 0),
			EndTime:   at(11, 0),
			UserID:    "u-302",
			UserName:  "Brian Okafor",
			CreatedBy: "joeuntrecht",
			CreatedAt: at(7, 40),
		},
		{
			BookingID: "bk-1003",
			RoomID:    "R429",
			RoomName:  "Conference Room D",
			StartTime: at(9, 15),
			EndTime:   at(10, 0),
			UserID:    "u-303",
			UserName:  "Carla Mendes",
			CreatedBy: "admin",
			CreatedAt: at(8, 55),
		},
		{
			BookingID: "bk-1004",
			RoomID:    "R421",
			RoomName:  "Conference Room A",
			StartTime: at(14, 0),
			EndTime:   at(15, 0),
			UserID:    "u-304",
			UserName:  "Dan Wheeler",
			CreatedBy: "eligauger",
			CreatedAt: at(8, 0),
		},
	}

	logs := []AccessLogEntry{
		{
			RoomID:            "R421",
			UserID:            "u-301",
			UserName:          "Alice Johnson",
			AccessAttemptTime: at(9, 5),
			AccessStatus:      "granted",
		},
		{
			RoomID:            "R426",
			UserID:            "u-305",
			UserName:          "Evan Price",
			AccessAttemptTime: at(9, 0),
			AccessStatus:      "granted",
		},
		{
			RoomID:            "R422",
			UserID:            "u-306",
			UserName:          "Fay Lindgren",
			AccessAttemptTime: at(6, 30),
			AccessStatus:      "denied",
		},
	}

	return &MockTransport{bookings: bookings, logs: logs}
}

// Bookings returns the backing booking records.
func (m *MockTransport) Bookings() []Booking {
	return m.bookings
}

// AccessLogs returns the backing access-log records.
func (m *MockTransport) AccessLogs() []AccessLogEntry {
	return m.logs
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch req.URL.Path {
	case BookingsPath:
		return jsonResponse(req, http.StatusOK, bookingsEnvelope{MockBookings: m.bookings})
	case AccessLogsPath:
		return jsonResponse(req, http.StatusOK, accessLogsEnvelope{MockRoomAccessLogs: m.logs})
	default:
		return jsonResponse(req, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func jsonResponse(req *http.Request, status int, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding mock response: %w", err)
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(data)),
		Request:    req,
	}, nil
}
