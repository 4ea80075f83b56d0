package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

var testNow = time.Date(2026, 6, 20, 15, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

// createTestRsvp 輔助函數：直接寫入一筆出席的 RSVP
func createTestRsvp(t *testing.T, db *sql.DB, name, email string, guestCount int) int64 {
	t.Helper()

	query := `
		INSERT INTO rsvp (name, email, attending, guest_count, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
	`
	result, err := db.ExecContext(context.Background(), query, name, email, guestCount, testNow, testNow)
	if err != nil {
		t.Fatalf("Failed to create test rsvp: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read rsvp id: %v", err)
	}
	return id
}

// assertRowCount 輔助函數：檢查資料表的行數
func assertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, count)
	}
}
