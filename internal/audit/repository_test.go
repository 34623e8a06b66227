package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE audit_logs (
			id         TEXT PRIMARY KEY,
			action     TEXT NOT NULL,
			entity     TEXT,
			identity   TEXT,
			details    TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("creating audit_logs table: %v", err)
	}

	return db
}

func TestCreate_GeneratesIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	log := &AuditLog{
		Action:   "notify_set",
		Entity:   "the_sett",
		Identity: "admin",
		Details:  map[string]any{"mode": "always"},
	}

	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if log.ID == "" {
		t.Error("Create() did not generate an ID")
	}
	if len(log.ID) < 4 || log.ID[:4] != "aud-" {
		t.Errorf("generated ID %q missing aud- prefix", log.ID)
	}
	if log.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}
}

func TestList_FiltersAndPagination(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	entries := []*AuditLog{
		{Action: "hours_set", Entity: "the_sett", Identity: "admin", CreatedAt: time.Date(2024, 10, 30, 9, 0, 0, 0, time.UTC)},
		{Action: "notify_set", Entity: "the_sett", Identity: "admin", CreatedAt: time.Date(2024, 10, 30, 9, 1, 0, 0, time.UTC)},
		{Action: "hours_set", Entity: "bowling", Identity: "eligauger", CreatedAt: time.Date(2024, 10, 30, 9, 2, 0, 0, time.UTC)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int
	}{
		{name: "no filter", filter: Filter{}, wantTotal: 3},
		{name: "by action", filter: Filter{Action: "hours_set"}, wantTotal: 2},
		{name: "by entity", filter: Filter{Entity: "the_sett"}, wantTotal: 2},
		{name: "by identity", filter: Filter{Identity: "eligauger"}, wantTotal: 1},
		{name: "action and entity", filter: Filter{Action: "hours_set", Entity: "bowling"}, wantTotal: 1},
		{name: "no matches", filter: Filter{Entity: "truck_bay"}, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", result.Total, tt.wantTotal)
			}
			if len(result.Logs) != tt.wantTotal {
				t.Errorf("len(Logs) = %d, want %d", len(result.Logs), tt.wantTotal)
			}
		})
	}
}

func TestList_OrderAndLimit(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		log := &AuditLog{
			Action:    "hours_set",
			Entity:    "the_sett",
			CreatedAt: time.Date(2024, 10, 30, 9, i, 0, 0, time.UTC),
		}
		if err := repo.Create(ctx, log); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	result, err := repo.List(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if len(result.Logs) != 2 {
		t.Fatalf("len(Logs) = %d, want 2", len(result.Logs))
	}

	// Most recent first.
	if !result.Logs[0].CreatedAt.After(result.Logs[1].CreatedAt) {
		t.Errorf("logs not ordered most recent first: %v then %v",
			result.Logs[0].CreatedAt, result.Logs[1].CreatedAt)
	}
}

func TestList_DetailsRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	original := &AuditLog{
		Action:  "hours_set",
		Entity:  "the_sett",
		Details: map[string]any{"opening": "08:00", "closing": "22:00"},
	}
	if err := repo.Create(ctx, original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Logs) != 1 {
		t.Fatalf("len(Logs) = %d, want 1", len(result.Logs))
	}

	details := result.Logs[0].Details
	if details["opening"] != "08:00" || details["closing"] != "22:00" {
		t.Errorf("Details = %v, want opening/closing preserved", details)
	}
}
