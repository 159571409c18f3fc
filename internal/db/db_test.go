package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestNew_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := db.InsertSnapshot(context.Background(), baseTime, []byte(payloadWithTotal(1))); err != nil {
		t.Fatalf("InsertSnapshot() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = New(dbPath)
	if err != nil {
		t.Fatalf("New() on existing file error = %v", err)
	}
	defer db.Close()

	n, err := db.CountSnapshots(context.Background())
	if err != nil || n != 1 {
		t.Errorf("CountSnapshots() = %d, %v; want 1", n, err)
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var name string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "analytics").Scan(&name)
	if err != nil {
		t.Errorf("Table analytics does not exist: %v", err)
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
