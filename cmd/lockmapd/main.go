// Lockmap Core - Facility Map Server
//
// This is the main entry point for the Lockmap Core application. It
// serves the facility floor map to browser viewers: floor plans, the
// lock-activity overlay, live booking classification and per-room
// preferences, all over a REST API plus a WebSocket event stream.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lastlock/lockmap-core/migrations"

	"github.com/lastlock/lockmap-core/internal/alerts"
	"github.com/lastlock/lockmap-core/internal/api"
	"github.com/lastlock/lockmap-core/internal/audit"
	"github.com/lastlock/lockmap-core/internal/auth"
	"github.com/lastlock/lockmap-core/internal/booking"
	"github.com/lastlock/lockmap-core/internal/floorplan"
	"github.com/lastlock/lockmap-core/internal/infrastructure/config"
	"github.com/lastlock/lockmap-core/internal/infrastructure/database"
	"github.com/lastlock/lockmap-core/internal/infrastructure/influxdb"
	"github.com/lastlock/lockmap-core/internal/infrastructure/logging"
	"github.com/lastlock/lockmap-core/internal/infrastructure/mqtt"
	"github.com/lastlock/lockmap-core/internal/lockactivity"
	"github.com/lastlock/lockmap-core/internal/prefs"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lockmap Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load the embedded floor catalog
	catalog, err := floorplan.Load()
	if err != nil {
		return fmt.Errorf("loading floor catalog: %w", err)
	}
	log.Info("floor catalog loaded", "floors", len(catalog.Floors()))

	// Generate the lock-activity overlay dataset
	activity := lockactivity.Generate(catalog, cfg.Map.BusyRoom,
		rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint:gosec // Visual demo data, not security-sensitive
	log.Info("lock activity generated", "samples", len(activity.Samples()))

	// Fetch booking data through the in-process mock backend, anchored
	// to the configured reference time
	ref := cfg.ReferenceTime()
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	mock := booking.NewMockTransport(ref)
	bookingClient := booking.NewClient(mock)

	bookings, err := bookingClient.FetchBookings(ctx)
	if err != nil {
		return fmt.Errorf("fetching bookings: %w", err)
	}
	accessLogs, err := bookingClient.FetchAccessLogs(ctx)
	if err != nil {
		return fmt.Errorf("fetching access logs: %w", err)
	}
	log.Info("booking data loaded",
		"bookings", len(bookings),
		"access_logs", len(accessLogs),
		"reference_time", ref.Format(time.RFC3339),
	)

	classify := func(room floorplan.RoomProperties) booking.VisualState {
		return booking.Classify(room, bookings, accessLogs, ref)
	}

	// Storage repositories
	prefsRepo := prefs.NewSQLiteRepository(db.DB)
	auditRepo := audit.NewSQLiteRepository(db.DB)
	prefsSvc := prefs.NewService(prefsRepo, auditRepo, log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled, room entry alerts will be dropped")
	}

	// Connect to InfluxDB (optional) and record the generated activity
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
		influxClient = nil
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		recordActivity(influxClient, activity)
		log.Info("lock activity recorded to InfluxDB", "samples", len(activity.Samples()))
	}

	// Replay mock access events through the alert notifier so retained
	// room alerts reflect the reference day
	replayAccessEvents(ctx, cfg, catalog, prefsRepo, mqttClient, accessLogs, log)

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Map:      cfg.Map,
		Logger:   log,
		Catalog:  catalog,
		Gate:     auth.NewGate(cfg.Security),
		Prefs:    prefsSvc,
		Audit:    auditRepo,
		Activity: activity,
		Classify: classify,
		Mock:     mock,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (and its WebSocket hub)
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Lockmap Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LOCKMAP_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LOCKMAP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// recordActivity writes every generated lock-activity sample to InfluxDB.
// Writes are batched by the client; errors surface via the error callback.
func recordActivity(client *influxdb.Client, activity *lockactivity.Dataset) {
	for _, sample := range activity.Samples() {
		client.WriteLockActivity(sample.Room, sample.Floor, sample.Hour, sample.Intensity)
	}
	client.Flush()
}

// replayAccessEvents pushes the reference day's access log through the
// alert notifier. Rooms without a preference default to no alert, so on
// a fresh database this is a quiet no-op.
func replayAccessEvents(
	ctx context.Context,
	cfg *config.Config,
	catalog *floorplan.Catalog,
	prefsRepo prefs.Repository,
	mqttClient *mqtt.Client,
	accessLogs []booking.AccessLogEntry,
	log *logging.Logger,
) {
	var publisher alerts.Publisher
	if mqttClient != nil {
		publisher = mqttClient
	}
	notifier := alerts.NewNotifier(prefsRepo, publisher, byte(cfg.MQTT.QoS), log)

	for _, entry := range accessLogs {
		name, ok := roomName(catalog, entry.RoomID)
		if !ok {
			log.Debug("access log references unknown room", "room_id", entry.RoomID)
			continue
		}
		if err := notifier.HandleAccessEvent(ctx, name, entry); err != nil {
			log.Warn("alert dispatch failed", "room_id", entry.RoomID, "error", err)
		}
	}
}

// roomName resolves a room id to its display name across all floors.
func roomName(catalog *floorplan.Catalog, roomID string) (string, bool) {
	for _, floor := range catalog.Floors() {
		if feature, ok := floor.Room(roomID); ok {
			return feature.Properties.Name, true
		}
	}
	return "", false
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
