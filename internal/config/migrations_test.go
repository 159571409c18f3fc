package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMigrations(t *testing.T) {
	got := DefaultMigrations()
	if len(got) != 1 {
		t.Fatalf("DefaultMigrations() = %+v", got)
	}
	if got[0].From != "Halsey" || got[0].To != "Khalid" || got[0].MigratedAt != "2024-11" {
		t.Errorf("DefaultMigrations()[0] = %+v", got[0])
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing file uses defaults", func(t *testing.T) {
		got, err := LoadMigrations(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadMigrations() error = %v", err)
		}
		if len(got) != 1 || got[0].To != "Khalid" {
			t.Errorf("LoadMigrations() = %+v", got)
		}
	})

	t.Run("Custom file", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		content := "migrations:\n  - from: A\n    to: B\n  - from: B\n    to: C\n    migratedAt: \"2025-01\"\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := LoadMigrations(path)
		if err != nil {
			t.Fatalf("LoadMigrations() error = %v", err)
		}
		if len(got) != 2 || got[1].From != "B" || got[1].MigratedAt != "2025-01" {
			t.Errorf("LoadMigrations() = %+v", got)
		}
	})

	t.Run("Empty list", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, []byte("migrations: []\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := LoadMigrations(path)
		if err != nil || len(got) != 0 {
			t.Errorf("LoadMigrations() = %+v, %v", got, err)
		}
	})

	invalid := []struct {
		name    string
		content string
	}{
		{"Malformed", "migrations: [\n"},
		{"MissingTo", "migrations:\n  - from: A\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadMigrations(path); err == nil {
				t.Error("LoadMigrations() expected error")
			}
		})
	}
}
