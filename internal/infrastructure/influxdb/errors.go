package influxdb

import "errors"

// Sentinel errors, matchable with errors.Is.
var (
	ErrNotConnected     = errors.New("influxdb: not connected")
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled means the integration is switched off in config.
	// Callers typically log and carry on without time-series history.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
