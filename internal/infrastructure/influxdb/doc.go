// Package influxdb stores Lockmap's time-series data: per-hour lock
// activity intensity for the map overlay, and room access events.
//
// It wraps influxdb-client-go v2. Writes are batched and non-blocking
// per the batch_size and flush_interval settings; async failures reach
// the caller through a SetOnError callback rather than return values.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without history
//	}
//	defer client.Close()
//
//	client.WriteLockActivity("The Sett", "UNION_SOUTH_I", 12, 4)
package influxdb
