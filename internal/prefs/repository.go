package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no record exists for a slug.
var ErrNotFound = errors.New("prefs: record not found")

// Repository defines storage operations for room preferences.
type Repository interface {
	Get(ctx context.Context, slug string) (*Record, error)
	Save(ctx context.Context, record *Record) error
	List(ctx context.Context) ([]*Record, error)
}

// SQLiteRepository persists preferences in the room_preferences table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a preference repository backed by db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the record for slug, or ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, slug string) (*Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT slug, opening_time, closing_time, notify_mode, schema_version, created_at, updated_at
		 FROM room_preferences WHERE slug = ?`, slug)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("querying preference %s: %w", slug, err)
	}
	return rec, nil
}

// Save upserts the record. Timestamps are maintained here: CreatedAt is
// set on first write, UpdatedAt on every write.
func (r *SQLiteRepository) Save(ctx context.Context, record *Record) error {
	if record.Slug == "" {
		return fmt.Errorf("prefs: slug is required")
	}
	if !record.NotifyMode.Valid() {
		return fmt.Errorf("prefs: invalid notify mode %q", record.NotifyMode)
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.SchemaVersion == 0 {
		record.SchemaVersion = SchemaVersion
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_preferences
		   (slug, opening_time, closing_time, notify_mode, schema_version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET
		   opening_time = excluded.opening_time,
		   closing_time = excluded.closing_time,
		   notify_mode = excluded.notify_mode,
		   schema_version = excluded.schema_version,
		   updated_at = excluded.updated_at`,
		record.Slug, record.OpeningTime, record.ClosingTime, string(record.NotifyMode),
		record.SchemaVersion,
		record.CreatedAt.Format(time.RFC3339), record.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving preference %s: %w", record.Slug, err)
	}
	return nil
}

// List returns every stored record ordered by slug.
func (r *SQLiteRepository) List(ctx context.Context) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, opening_time, closing_time, notify_mode, schema_version, created_at, updated_at
		 FROM room_preferences ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preferences: %w", err)
	}
	return records, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var mode, createdAt, updatedAt string
	if err := s.Scan(&rec.Slug, &rec.OpeningTime, &rec.ClosingTime, &mode,
		&rec.SchemaVersion, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.NotifyMode = NotifyMode(mode)

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return &rec, nil
}
