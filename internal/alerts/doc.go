// Package alerts turns room access events into MQTT notifications
// according to each room's saved notification preference.
//
// Three modes exist: "always" publishes every entry, "afterHours"
// publishes only entries outside the room's saved operating hours (a
// room with no saved hours treats every entry as after-hours), and
// "off" publishes nothing.
package alerts
