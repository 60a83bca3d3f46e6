package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB opens a gorm session that only builds SQL, never touching a
// database, and records the last generated query.
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	var lastSQL string
	err = db.Callback().Query().After("gorm:query").
		Register("capture_sql", func(tx *gorm.DB) {
			lastSQL = tx.Statement.SQL.String()
		})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return db, &lastSQL
}

// Postgres rejects FOR UPDATE combined with aggregates (0A000), so the
// overlap check must lock plain rows and count them client-side.
func TestCountConfirmedOverlapsLocksRowsWithoutAggregate(t *testing.T) {
	db, lastSQL := dryRunDB(t)
	repo := NewBookingGormRepository(db)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if _, err := repo.CountConfirmedOverlaps(context.Background(), 1, start, end); err != nil {
		t.Fatalf("CountConfirmedOverlaps: %v", err)
	}

	sql := *lastSQL
	if sql == "" {
		t.Fatal("no query captured")
	}
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("expected row locking, got %q", sql)
	}
	if strings.Contains(strings.ToLower(sql), "count(") {
		t.Fatalf("aggregate combined with FOR UPDATE: %q", sql)
	}
	if !strings.Contains(sql, `"id"`) {
		t.Fatalf("expected an id selection, got %q", sql)
	}
	if !strings.Contains(sql, "host_id") || !strings.Contains(sql, "confirmed") {
		t.Fatalf("missing host/status filter: %q", sql)
	}
}
