package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lastlock/lockmap-core/internal/booking"
	"github.com/lastlock/lockmap-core/internal/infrastructure/logging"
	"github.com/lastlock/lockmap-core/internal/infrastructure/mqtt"
	"github.com/lastlock/lockmap-core/internal/prefs"
)

// Publisher is the slice of the MQTT client the notifier needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Alert is the payload published for a notifying access event.
type Alert struct {
	RoomSlug   string    `json:"room_slug"`
	UserName   string    `json:"user_name"`
	Status     string    `json:"status"`
	AccessedAt time.Time `json:"accessed_at"`
	AfterHours bool      `json:"after_hours"`
}

// Notifier evaluates access events against room preferences and
// publishes alerts for the ones that qualify.
type Notifier struct {
	repo      prefs.Repository
	publisher Publisher
	logger    *logging.Logger
	qos       byte
}

// NewNotifier wires an alert notifier. publisher may be nil when MQTT
// is disabled; qualifying events are then logged and dropped.
func NewNotifier(repo prefs.Repository, publisher Publisher, qos byte, logger *logging.Logger) *Notifier {
	return &Notifier{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		qos:       qos,
	}
}

// HandleAccessEvent applies the room's notification preference to one
// access-log entry, publishing an alert when the preference says so.
// The room is identified by its name; slugs key the preference store.
func (n *Notifier) HandleAccessEvent(ctx context.Context, roomName string, entry booking.AccessLogEntry) error {
	slug := prefs.Slugify(roomName)

	record, err := n.repo.Get(ctx, slug)
	if errors.Is(err, prefs.ErrNotFound) {
		return nil // no preference saved, default is off
	}
	if err != nil {
		return fmt.Errorf("loading preference for %s: %w", slug, err)
	}

	afterHours := outsideHours(record, entry.AccessAttemptTime)

	switch record.NotifyMode {
	case prefs.NotifyOff:
		return nil
	case prefs.NotifyAfterHours:
		if !afterHours {
			return nil
		}
	case prefs.NotifyAlways:
	default:
		return nil
	}

	return n.publish(slug, entry, afterHours)
}

func (n *Notifier) publish(slug string, entry booking.AccessLogEntry, afterHours bool) error {
	alert := Alert{
		RoomSlug:   slug,
		UserName:   entry.UserName,
		Status:     entry.AccessStatus,
		AccessedAt: entry.AccessAttemptTime,
		AfterHours: afterHours,
	}

	if n.publisher == nil {
		if n.logger != nil {
			n.logger.Info("alert suppressed, mqtt disabled", "room", slug, "user", entry.UserName)
		}
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encoding alert for %s: %w", slug, err)
	}
	if err := n.publisher.Publish(mqtt.CoreAlert(slug), payload, n.qos, false); err != nil {
		return fmt.Errorf("publishing alert for %s: %w", slug, err)
	}
	if n.logger != nil {
		n.logger.Info("access alert published", "room", slug, "user", entry.UserName, "after_hours", afterHours)
	}
	return nil
}

// outsideHours reports whether t falls outside the record's saved
// operating hours. Unset or partial hours count as outside; only the
// time of day matters.
func outsideHours(record *prefs.Record, t time.Time) bool {
	if record.OpeningTime == "" || record.ClosingTime == "" {
		return true
	}
	open, err := parseClock(record.OpeningTime)
	if err != nil {
		return true
	}
	closing, err := parseClock(record.ClosingTime)
	if err != nil {
		return true
	}

	minute := t.Hour()*60 + t.Minute()
	return minute < open || minute >= closing
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parsing clock time %q: %w", s, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
