package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrFetchFailed is returned when an endpoint answers with a non-OK
// status. Callers log it and carry on with unclassified markers.
var ErrFetchFailed = errors.New("booking: fetch failed")

const defaultFetchTimeout = 10 * time.Second

// Client fetches bookings and access logs over HTTP. In this deployment
// the transport is the in-process mock, but the client neither knows nor
// cares; swapping in a real backend is a transport change only.
type Client struct {
	http *http.Client
	base string
}

// NewClient creates a Client using the given transport.
func NewClient(rt http.RoundTripper) *Client {
	return &Client{
		http: &http.Client{
			Transport: rt,
			Timeout:   defaultFetchTimeout,
		},
		base: "http://bookings.internal",
	}
}

// FetchBookings returns all booking records.
func (c *Client) FetchBookings(ctx context.Context) ([]Booking, error) {
	var envelope bookingsEnvelope
	if err := c.get(ctx, BookingsPath, &envelope); err != nil {
		return nil, err
	}
	return envelope.MockBookings, nil
}

// FetchAccessLogs returns all access-log records.
func (c *Client) FetchAccessLogs(ctx context.Context) ([]AccessLogEntry, error) {
	var envelope accessLogsEnvelope
	if err := c.get(ctx, AccessLogsPath, &envelope); err != nil {
		return nil, err
	}
	return envelope.MockRoomAccessLogs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrFetchFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
