package mqtt

// Topic builders for the Lockmap MQTT hierarchy. Everything lives under
// lockmap/ with two branches: core/ for domain traffic and system/ for
// lifecycle status.
const (
	topicPrefixCore   = "lockmap/core"
	topicPrefixSystem = "lockmap/system"
)

// CoreAlert is the topic for room entry alerts, keyed by room slug.
func CoreAlert(slug string) string {
	return topicPrefixCore + "/alert/" + slug
}

// CoreRoomState is the topic for a room's visual-state changes.
func CoreRoomState(slug string) string {
	return topicPrefixCore + "/room/" + slug + "/state"
}

// CoreEvent is the topic for session events such as floor_changed.
func CoreEvent(eventType string) string {
	return topicPrefixCore + "/event/" + eventType
}

// SystemStatus is the retained online/offline status topic.
func SystemStatus() string {
	return topicPrefixSystem + "/status"
}

// SystemShutdown is the shutdown signal topic.
func SystemShutdown() string {
	return topicPrefixSystem + "/shutdown"
}

// AllCoreAlerts matches entry alerts for every room.
func AllCoreAlerts() string {
	return topicPrefixCore + "/alert/+"
}

// AllCoreRoomStates matches state changes for every room.
func AllCoreRoomStates() string {
	return topicPrefixCore + "/room/+/state"
}

// AllCoreEvents matches every session event.
func AllCoreEvents() string {
	return topicPrefixCore + "/event/+"
}

// AllTopics matches the entire Lockmap hierarchy.
func AllTopics() string {
	return "lockmap/#"
}
