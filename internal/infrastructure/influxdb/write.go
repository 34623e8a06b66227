package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteLockActivity records one per-hour activity intensity sample for
// the map's time-series overlay. Non-blocking; the point is batched.
func (c *Client) WriteLockActivity(room, floorID string, hour, intensity int) {
	c.writePoint(write.NewPoint(
		"lock_activity",
		map[string]string{
			"room":  room,
			"floor": floorID,
		},
		map[string]interface{}{
			"hour":      hour,
			"intensity": intensity,
		},
		time.Now(),
	))
}

// WriteAccessEvent records a room entry attempt and its outcome.
func (c *Client) WriteAccessEvent(roomSlug, userName, status string, at time.Time) {
	c.writePoint(write.NewPoint(
		"access_events",
		map[string]string{
			"room":   roomSlug,
			"status": status,
		},
		map[string]interface{}{
			"user": userName,
		},
		at,
	))
}

// WritePoint writes an arbitrary measurement stamped now. Tags should
// stay low cardinality; fields carry the data.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointAt(measurement, tags, fields, time.Now())
}

// WritePointAt is WritePoint with an explicit timestamp, for replayed
// or delayed data.
func (c *Client) WritePointAt(measurement string, tags map[string]string, fields map[string]interface{}, at time.Time) {
	c.writePoint(write.NewPoint(measurement, tags, fields, at))
}

func (c *Client) writePoint(point *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(point)
}
