// Package mqtt connects Lockmap Core to an MQTT broker.
//
// MQTT is the outbound notification bus: room entry alerts and session
// events are published for external consumers (dashboards, pagers,
// integrations) without coupling them to the HTTP API.
//
// The client reconnects automatically, restores subscriptions after a
// reconnect, and announces itself on lockmap/system/status with a Last
// Will so consumers can tell a crash from a clean shutdown.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Publish(mqtt.CoreAlert("the_sett"), payload, 1, false)
//
// Enable TLS (cfg.Broker.TLS) for anything beyond local development;
// payloads are not encrypted beyond the transport.
package mqtt
