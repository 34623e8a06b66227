// Package database manages the SQLite store behind room preferences
// and the audit trail.
//
// The database opens in WAL mode so preference reads keep working
// while audit writes land, with a busy timeout to smooth over the
// single-writer lock. Schema changes ship as embedded, versioned
// migrations applied at startup:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive. New columns need defaults or NULL, and
// nothing gets dropped or renamed, so older binaries can still read a
// newer file. All queries are parameterised and the database file is
// created 0600.
package database
