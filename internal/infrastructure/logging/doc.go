// Package logging wraps log/slog so every component logs with the same
// shape: JSON in production, text in development, and service/version
// fields stamped on each entry.
//
// The level, format, and output stream come from the logging section
// of config.yaml. Component loggers are derived with With:
//
//	logger := logging.New(cfg.Logging, version)
//	sessionLog := logger.With("component", "mapsession")
//	sessionLog.Info("floor selected", "floor_id", floorID)
//
// Never log secrets or tokens; truncate anything sensitive before it
// reaches a log field.
package logging
